package mail

import (
	"context"

	"go.uber.org/zap"
)

const consoleTransportName = "console"

// ConsoleTransport is the test mode used when no credentials are configured:
// the message is logged in full and nothing leaves the process.
type ConsoleTransport struct {
	log *zap.SugaredLogger
}

func NewConsoleTransport(log *zap.SugaredLogger) *ConsoleTransport {
	return &ConsoleTransport{log: log}
}

func (t *ConsoleTransport) Name() string {
	return consoleTransportName
}

func (t *ConsoleTransport) Send(_ context.Context, msg Message) (Outcome, error) {
	t.log.Infow("EMAIL (MODO TESTE - não enviado)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body)
	return OutcomeTestModeSkipped, nil
}
