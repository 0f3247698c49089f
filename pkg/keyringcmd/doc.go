// Package keyringcmd implements the formrelay-keyring CLI, which stores the
// SMTP app password (keyed by sender address) and the email API key in the OS
// keyring under the service the server reads at startup.
package keyringcmd
