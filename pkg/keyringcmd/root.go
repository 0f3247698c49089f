package keyringcmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dafonte/formrelay/pkg/credentials"
	"github.com/dafonte/formrelay/pkg/version"
)

// Store is the writable side of credentials.SecretStore.
type Store interface {
	credentials.SecretStore
	Set(service, key, secret string) error
	Delete(service, key string) error
}

type Config struct {
	OutputWriter io.Writer
	Store        Store
}

func DefaultConfig() Config {
	return Config{
		OutputWriter: os.Stdout,
		Store:        credentials.NewKeyringStore(),
	}
}

type account struct {
	email  string
	resend bool
}

// key returns the keyring account the command operates on.
func (a account) key() (string, error) {
	switch {
	case a.email != "" && a.resend:
		return "", errors.New("use either --email or --resend, not both")
	case a.resend:
		return credentials.APIKeyAccount, nil
	case a.email != "":
		return a.email, nil
	default:
		return "", errors.New("--email is required (or --resend for the email API key)")
	}
}

func (a account) describe() string {
	if a.resend {
		return "email API key"
	}
	return a.email
}

func NewRootCommand(cfg Config) *cobra.Command {
	if cfg.OutputWriter == nil {
		cfg.OutputWriter = os.Stdout
	}
	if cfg.Store == nil {
		cfg.Store = credentials.NewKeyringStore()
	}

	root := &cobra.Command{
		Use:          "formrelay-keyring",
		Short:        "Manage formrelay mail credentials in the system keyring",
		Version:      version.GetBuildInfo().String(),
		SilenceUsage: true,
	}
	root.SetOut(cfg.OutputWriter)
	root.SetErr(cfg.OutputWriter)

	root.AddCommand(
		newSetCommand(cfg),
		newGetCommand(cfg),
		newDeleteCommand(cfg),
	)
	return root
}

func newSetCommand(cfg Config) *cobra.Command {
	var acc account
	var password, apiKey string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the SMTP app password for a sender address, or the email API key",
		Example: `  formrelay-keyring set --email you@gmail.com --password "your-app-password"
  formrelay-keyring set --api-key re_xxx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if apiKey != "" {
				if acc.email != "" || password != "" {
					return errors.New("--api-key cannot be combined with --email or --password")
				}
				if err := cfg.Store.Set(credentials.ServiceName, credentials.APIKeyAccount, apiKey); err != nil {
					return fmt.Errorf("saving email API key: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Email API key saved to keyring")
				return err
			}

			key, err := acc.key()
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("--password is required")
			}
			if err := cfg.Store.Set(credentials.ServiceName, key, password); err != nil {
				return fmt.Errorf("saving password for %s: %w", key, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Password saved to keyring for", key)
			return err
		},
	}
	cmd.Flags().StringVar(&acc.email, "email", "", "Sender address (EMAIL_REMETENTE) the password belongs to")
	cmd.Flags().StringVar(&password, "password", "", "App password to store in keyring")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Email API key to store in keyring")
	return cmd
}

func newGetCommand(cfg Config) *cobra.Command {
	var acc account
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Check whether a secret is stored, optionally printing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := acc.key()
			if err != nil {
				return err
			}
			secret, err := cfg.Store.Get(credentials.ServiceName, key)
			if errors.Is(err, credentials.ErrSecretNotFound) {
				return fmt.Errorf("no secret stored for %s", acc.describe())
			}
			if err != nil {
				return fmt.Errorf("reading secret for %s: %w", acc.describe(), err)
			}
			if reveal {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Secret stored for %s: %s\n", acc.describe(), Mask(secret))
			return err
		},
	}
	cmd.Flags().StringVar(&acc.email, "email", "", "Sender address to look up")
	cmd.Flags().BoolVar(&acc.resend, "resend", false, "Look up the email API key instead of an SMTP password")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the secret in clear text")
	return cmd
}

func newDeleteCommand(cfg Config) *cobra.Command {
	var acc account

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a stored secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := acc.key()
			if err != nil {
				return err
			}
			err = cfg.Store.Delete(credentials.ServiceName, key)
			if errors.Is(err, credentials.ErrSecretNotFound) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Nothing stored for %s\n", acc.describe())
				return err
			}
			if err != nil {
				return fmt.Errorf("deleting secret for %s: %w", acc.describe(), err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Secret removed from keyring for %s\n", acc.describe())
			return err
		},
	}
	cmd.Flags().StringVar(&acc.email, "email", "", "Sender address whose password is removed")
	cmd.Flags().BoolVar(&acc.resend, "resend", false, "Remove the email API key instead of an SMTP password")
	return cmd
}

// Mask keeps the first and last two characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
