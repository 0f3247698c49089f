// Package mail builds contact form notifications and delivers them through
// one of three transports: SMTP, the Resend HTTP API, or a console test mode
// used when no credentials are configured.
package mail
