package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/version"
)

const resendTransportName = "resend"

// resendRequest is the JSON body accepted by the Resend /emails endpoint.
type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// ResendTransport posts messages to a transactional-email HTTP API with bearer
// token authentication.
type ResendTransport struct {
	client   *resty.Client
	endpoint string
	log      *zap.SugaredLogger
}

func NewResendTransport(endpoint, apiKey string, timeout time.Duration, log *zap.SugaredLogger) *ResendTransport {
	client := resty.New().
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("User-Agent", version.UserAgent())
	return &ResendTransport{
		client:   client,
		endpoint: endpoint,
		log:      log.Named("resend"),
	}
}

func (t *ResendTransport) Name() string {
	return resendTransportName
}

func (t *ResendTransport) Send(ctx context.Context, msg Message) (Outcome, error) {
	var result resendResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(resendRequest{
			From:    msg.From,
			To:      []string{msg.To},
			Subject: msg.Subject,
			Text:    msg.Body,
		}).
		SetResult(&result).
		Post(t.endpoint)
	if err != nil {
		t.log.Errorw("Email API request failed", "endpoint", t.endpoint, "error", err)
		return failed(resendTransportName, err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.log.Errorw("Email API rejected message",
			"endpoint", t.endpoint,
			"status", resp.StatusCode(),
			"response", resp.String())
		return failed(resendTransportName, fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}
	t.log.Infow("Mail sent", "to", msg.To, "id", result.ID)
	return OutcomeSent, nil
}
