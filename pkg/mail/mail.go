package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/config"
)

// Subject of every contact form notification.
const Subject = "Novo contato da Landing Page DAFONTE"

const bodyTemplate = `
Novo contato recebido da Landing Page DAFONTE:

Nome: %s
E-mail: %s
WhatsApp: %s

---
Este email foi enviado automaticamente pelo formulário da landing page.
`

// Submission is one contact form post. Fields are free text and never validated.
type Submission struct {
	Name  string
	Email string
	Phone string
}

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// BuildMessage renders the plaintext notification for a submission.
func BuildMessage(from, to string, s Submission) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: Subject,
		Body:    fmt.Sprintf(bodyTemplate, s.Name, s.Email, s.Phone),
	}
}

// Outcome is the result of one delivery attempt.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeTestModeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeTestModeSkipped:
		return "test_mode"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transport delivers a message. Implementations return OutcomeFailed together
// with a *TransportError whenever delivery did not happen.
type Transport interface {
	Send(ctx context.Context, msg Message) (Outcome, error)
	Name() string
}

// TransportError wraps a network, auth or API error raised while sending.
type TransportError struct {
	Transport string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func failed(transport string, err error) (Outcome, error) {
	return OutcomeFailed, &TransportError{Transport: transport, Err: err}
}

// NewTransport selects the transport for the resolved credentials: the email
// API when a key is present, SMTP when sender and password are present, and
// the console test mode otherwise.
func NewTransport(cfg config.Config, log *zap.SugaredLogger) Transport {
	creds := cfg.Credentials
	switch {
	case creds.HasAPIKey():
		log.Infow("Using email API transport", "endpoint", cfg.Mail.APIEndpoint, "from", SenderFor(cfg))
		return NewResendTransport(cfg.Mail.APIEndpoint, creds.APIKey, cfg.Mail.APITimeoutDuration(), log)
	case creds.HasSMTP():
		log.Infow("Using SMTP transport", "host", cfg.Mail.SMTPHost, "port", cfg.Mail.SMTPPort, "user", creds.SenderAddress)
		return NewSMTPTransport(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, creds.SenderAddress, creds.Secret, log)
	default:
		log.Warnw("No mail credentials configured - running in test mode, emails are only logged",
			"hint", "set EMAIL_REMETENTE and SENHA_APP, RESEND_API_KEY, or store the password with formrelay-keyring")
		return NewConsoleTransport(log)
	}
}

// SenderFor returns the "from" address used for the configured transport.
func SenderFor(cfg config.Config) string {
	if cfg.Credentials.HasAPIKey() && cfg.Credentials.SenderAddress == "" {
		return cfg.Mail.APISender
	}
	return cfg.Credentials.SenderAddress
}
