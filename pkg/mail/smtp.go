package mail

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const smtpTransportName = "smtp"

// SMTPTransport submits messages over SMTP. gomail upgrades the connection
// with STARTTLS when the server offers it, authenticates, and closes the
// connection after every message.
type SMTPTransport struct {
	dialer *gomail.Dialer
	log    *zap.SugaredLogger
}

func NewSMTPTransport(host string, port int, username, password string, log *zap.SugaredLogger) *SMTPTransport {
	return &SMTPTransport{
		dialer: gomail.NewDialer(host, port, username, password),
		log:    log.Named("smtp"),
	}
}

func (t *SMTPTransport) Name() string {
	return smtpTransportName
}

func (t *SMTPTransport) GetHost() string {
	return t.dialer.Host
}

func (t *SMTPTransport) GetPort() int {
	return t.dialer.Port
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return failed(smtpTransportName, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := t.dialer.DialAndSend(m); err != nil {
		t.log.Errorw("Failed to send mail", "host", t.dialer.Host, "port", t.dialer.Port, "to", msg.To, "error", err)
		return failed(smtpTransportName, err)
	}
	t.log.Infow("Mail sent", "host", t.dialer.Host, "to", msg.To)
	return OutcomeSent, nil
}
