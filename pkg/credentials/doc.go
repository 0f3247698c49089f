// Package credentials resolves the outbound-mail credentials once at process
// startup, preferring the operating system keyring and falling back to
// environment variables.
package credentials
