package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keyring namespace all formrelay secrets are stored under.
const ServiceName = "dafonte_email"

// APIKeyAccount is the keyring account holding the transactional-email API key.
const APIKeyAccount = "resend"

var (
	// ErrStoreUnavailable means the host has no usable secret store
	// (unsupported platform, no session bus, locked backend).
	ErrStoreUnavailable = errors.New("secret store unavailable")
	// ErrSecretNotFound means the store works but holds nothing under the key.
	ErrSecretNotFound = errors.New("secret not found")
)

// SecretStore looks up secrets by service namespace and key.
// Implementations must return an error wrapping ErrStoreUnavailable or
// ErrSecretNotFound so callers can tell the two apart.
type SecretStore interface {
	Get(service, key string) (string, error)
}

// KeyringStore is a SecretStore backed by the OS keyring
// (Secret Service on Linux, Keychain on macOS, Credential Manager on Windows).
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (KeyringStore) Get(service, key string) (string, error) {
	secret, err := keyring.Get(service, key)
	if err != nil {
		return "", classify(err)
	}
	return secret, nil
}

func (KeyringStore) Set(service, key, secret string) error {
	if err := keyring.Set(service, key, secret); err != nil {
		return classify(err)
	}
	return nil
}

func (KeyringStore) Delete(service, key string) error {
	if err := keyring.Delete(service, key); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrSecretNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
