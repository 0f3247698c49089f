package credentials

import (
	"errors"
	"os"

	"go.uber.org/zap"
)

// Environment variables read by the resolver.
const (
	EnvSenderAddress = "EMAIL_REMETENTE"
	EnvAppPassword   = "SENHA_APP"
	EnvAPIKey        = "RESEND_API_KEY"
)

// Credentials are the outbound-mail secrets. They are resolved once at
// startup and never modified afterwards.
type Credentials struct {
	SenderAddress string
	Secret        string
	APIKey        string
}

// HasSMTP reports whether both the SMTP username and app password are known.
func (c Credentials) HasSMTP() bool {
	return c.SenderAddress != "" && c.Secret != ""
}

func (c Credentials) HasAPIKey() bool {
	return c.APIKey != ""
}

// Empty reports whether no transport can be used, i.e. the server runs in test mode.
func (c Credentials) Empty() bool {
	return !c.HasSMTP() && !c.HasAPIKey()
}

// Resolver builds Credentials from a SecretStore and the process environment.
type Resolver struct {
	// Store is optional; nil means the host has no secret store integration.
	Store SecretStore
	// DefaultSender is used when EMAIL_REMETENTE is unset.
	DefaultSender string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	Log       *zap.SugaredLogger
}

func NewResolver(store SecretStore, defaultSender string, log *zap.SugaredLogger) *Resolver {
	return &Resolver{
		Store:         store,
		DefaultSender: defaultSender,
		LookupEnv:     os.LookupEnv,
		Log:           log,
	}
}

// Resolve never fails: store errors are logged and skipped, and the worst
// case is an empty Credentials value.
func (r *Resolver) Resolve() Credentials {
	log := r.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	creds := Credentials{
		SenderAddress: r.env(EnvSenderAddress),
		Secret:        r.env(EnvAppPassword),
		APIKey:        r.env(EnvAPIKey),
	}
	if creds.SenderAddress == "" {
		creds.SenderAddress = r.DefaultSender
	}

	if creds.SenderAddress != "" && creds.Secret == "" {
		if secret, ok := r.lookup(log, creds.SenderAddress); ok {
			creds.Secret = secret
			log.Infow("Loaded SMTP password from system keyring", "sender", creds.SenderAddress)
		}
	}
	if creds.APIKey == "" {
		if key, ok := r.lookup(log, APIKeyAccount); ok {
			creds.APIKey = key
			log.Infow("Loaded email API key from system keyring")
		}
	}
	return creds
}

func (r *Resolver) lookup(log *zap.SugaredLogger, key string) (string, bool) {
	if r.Store == nil {
		return "", false
	}
	secret, err := r.Store.Get(ServiceName, key)
	switch {
	case err == nil:
		return secret, secret != ""
	case errors.Is(err, ErrSecretNotFound):
		log.Debugw("No secret stored in keyring", "service", ServiceName, "key", key)
	default:
		log.Warnw("Failed reading secret from keyring", "service", ServiceName, "key", key, "error", err)
	}
	return "", false
}

func (r *Resolver) env(key string) string {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(key)
	return v
}
