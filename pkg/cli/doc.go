// Package cli defines the formrelay server flags and their environment
// variable fallbacks.
package cli
