package mail

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/metrics"
	"github.com/dafonte/formrelay/pkg/telemetry"
)

// Result is the tagged delivery outcome for one submission. Err is only set
// when Outcome is OutcomeFailed.
type Result struct {
	Outcome Outcome
	Err     error
}

// Relay turns submissions into notifications for a fixed destination and
// hands them to the transport chosen at startup.
type Relay struct {
	transport Transport
	from      string
	to        string
}

func NewRelay(transport Transport, from, to string) *Relay {
	return &Relay{transport: transport, from: from, to: to}
}

// Mode is the name of the active transport ("smtp", "resend" or "console").
func (r *Relay) Mode() string {
	return r.transport.Name()
}

func (r *Relay) Destination() string {
	return r.to
}

func (r *Relay) Deliver(ctx context.Context, s Submission, log *zap.SugaredLogger) Result {
	msg := BuildMessage(r.from, r.to, s)
	name := r.transport.Name()

	ctx, span := telemetry.StartDelivery(ctx, name)
	start := time.Now()
	outcome, err := r.transport.Send(ctx, msg)
	metrics.MailSendDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		outcome = OutcomeFailed
	}
	telemetry.EndDelivery(span, outcome.String(), err)

	switch {
	case err != nil:
		metrics.MailSendFailure.WithLabelValues(name).Inc()
		log.Errorw("Erro ao enviar email", "to", r.to, "transport", name, "error", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	case outcome == OutcomeTestModeSkipped:
		log.Infow("Email logged in test mode, configure credentials to send real emails", "to", r.to)
		return Result{Outcome: outcome}
	default:
		metrics.MailSendSuccess.WithLabelValues(name).Inc()
		log.Infow("Email enviado com sucesso", "to", r.to, "nome", s.Name, "email", s.Email)
		return Result{Outcome: OutcomeSent}
	}
}
