// Package system holds process-wide plumbing shared by the server packages:
// logger construction and request-scoped loggers.
package system
