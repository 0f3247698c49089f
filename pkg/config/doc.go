// Package config loads the formrelay server configuration from an optional
// YAML file and the process environment.
package config
