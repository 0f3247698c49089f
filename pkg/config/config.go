package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dafonte/formrelay/pkg/credentials"
)

const (
	DefaultListenPort      = "8080"
	DefaultDestination     = "felipe.bastos3357@gmail.com"
	DefaultSMTPHost        = "smtp.gmail.com"
	DefaultSMTPPort        = 587
	DefaultAPIEndpoint     = "https://api.resend.com/emails"
	DefaultAPISender       = "onboarding@resend.dev"
	DefaultAPITimeout      = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogFile         = "server_email.log"
)

type Server struct {
	ListenAddress string `yaml:"listenAddress"`
	// StaticDir is the directory landing page assets are served from.
	StaticDir string `yaml:"staticDir"`
	// ShutdownTimeout bounds the graceful shutdown on SIGINT/SIGTERM (e.g. "10s").
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

type Mail struct {
	// Destination receives every contact form notification.
	Destination string `yaml:"destination"`
	// SenderAddress is the fallback sender when EMAIL_REMETENTE is unset.
	SenderAddress string `yaml:"senderAddress"`
	SMTPHost      string `yaml:"smtpHost"`
	SMTPPort      int    `yaml:"smtpPort"`
	APIEndpoint   string `yaml:"apiEndpoint"`
	// APISender is used as "from" by the API transport when no sender address is known.
	APISender  string `yaml:"apiSender"`
	APITimeout string `yaml:"apiTimeout"`
}

type Logging struct {
	Debug bool `yaml:"debug"`
	// File receives a rotated copy of every log line. Empty disables the file sink.
	File string `yaml:"file"`
}

// Tracing configures OpenTelemetry export of delivery spans. Disabled by default.
type Tracing struct {
	Enabled bool `yaml:"enabled"`
	// Exporter is one of otlp, stdout or none.
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// Config is built once at startup and passed by value afterwards.
type Config struct {
	Server  Server
	Mail    Mail
	Logging Logging
	Tracing Tracing

	// Credentials are resolved separately and never read from the config file.
	Credentials credentials.Credentials `yaml:"-"`
}

// Load reads the optional YAML config file, applies environment overrides and
// fills in defaults. An empty path skips the file entirely.
func Load(configPath ...string) (Config, error) {
	var config Config
	config.Logging.File = DefaultLogFile

	path := ""
	if len(configPath) > 0 {
		path = configPath[0]
	}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("trying to open formrelay config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, &config); err != nil {
			return config, fmt.Errorf("error unmarshaling YAML %s: %w", path, err)
		}
	}

	config.ApplyEnv(os.LookupEnv)
	config.Defaults()
	return config, nil
}

// ApplyEnv overrides file values with the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.ListenAddress = "0.0.0.0:" + strings.TrimPrefix(port, ":")
	}
	if dir, ok := lookup("STATIC_DIR"); ok && dir != "" {
		c.Server.StaticDir = dir
	}
	if dest, ok := lookup("EMAIL_DESTINO"); ok && dest != "" {
		c.Mail.Destination = dest
	}
	if file, ok := lookup("LOG_FILE"); ok {
		c.Logging.File = file
	}
	if debug, ok := lookup("DEBUG"); ok {
		if v, valid := parseBool(debug); valid {
			c.Logging.Debug = v
		}
	}
	if tracing, ok := lookup("FORMRELAY_TRACING"); ok {
		if v, valid := parseBool(tracing); valid {
			c.Tracing.Enabled = v
		}
	}
	if exporter, ok := lookup("FORMRELAY_TRACING_EXPORTER"); ok && exporter != "" {
		c.Tracing.Exporter = exporter
	}
	if endpoint, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && endpoint != "" {
		c.Tracing.Endpoint = endpoint
	}
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = "0.0.0.0:" + DefaultListenPort
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "."
	}
	if c.Mail.Destination == "" {
		c.Mail.Destination = DefaultDestination
	}
	if c.Mail.SMTPHost == "" {
		c.Mail.SMTPHost = DefaultSMTPHost
	}
	if c.Mail.SMTPPort <= 0 {
		c.Mail.SMTPPort = DefaultSMTPPort
	}
	if c.Mail.APIEndpoint == "" {
		c.Mail.APIEndpoint = DefaultAPIEndpoint
	}
	if c.Mail.APISender == "" {
		c.Mail.APISender = DefaultAPISender
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "otlp"
	}
	if c.Tracing.SamplingRate == 0 {
		c.Tracing.SamplingRate = 1.0
	}
}

// Mode names the delivery mode selected by the resolved credentials.
func (c Config) Mode() string {
	switch {
	case c.Credentials.HasAPIKey():
		return "resend"
	case c.Credentials.HasSMTP():
		return "smtp"
	default:
		return "test"
	}
}

func (m Mail) APITimeoutDuration() time.Duration {
	return ParseDurationOrDefault(m.APITimeout, DefaultAPITimeout)
}

func (s Server) ShutdownTimeoutDuration() time.Duration {
	return ParseDurationOrDefault(s.ShutdownTimeout, DefaultShutdownTimeout)
}

// ParseDurationOrDefault returns defaultVal for empty, invalid or non-positive values.
func ParseDurationOrDefault(value string, defaultVal time.Duration) time.Duration {
	if value == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
