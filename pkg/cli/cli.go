package cli

import (
	"flag"
	"os"
	"strings"
)

// Config holds the server command-line flags. Every flag falls back to an
// environment variable so the binary can run unchanged from a process manager.
type Config struct {
	Debug bool
	// ConfigPath points at an optional YAML file; empty means environment only.
	ConfigPath   string
	PrintVersion bool
}

// Parse reads args (without the program name) into a Config.
func Parse(args []string) (*Config, error) {
	config := &Config{}
	fs := flag.NewFlagSet("formrelay", flag.ContinueOnError)

	fs.BoolVar(&config.Debug, "debug", getEnvBool("DEBUG", false), "Enable debug level logging")
	fs.StringVar(&config.ConfigPath, "config", getEnvString("FORMRELAY_CONFIG", ""),
		"Path to an optional YAML config file")
	fs.BoolVar(&config.PrintVersion, "version", false, "Print build information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config, nil
}

// getEnvString returns the value of an environment variable or the provided default if not set.
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}
