package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/apiresponses"
	"github.com/dafonte/formrelay/pkg/mail"
	"github.com/dafonte/formrelay/pkg/metrics"
	"github.com/dafonte/formrelay/pkg/system"
)

// MaxSubmissionBytes caps the request body read for one submission.
const MaxSubmissionBytes = 64 << 10

// ErrMalformedInput wraps every reason a submission body could not be parsed.
var ErrMalformedInput = errors.New("malformed submission")

// Deliverer sends a parsed submission. *mail.Relay implements it.
type Deliverer interface {
	Deliver(ctx context.Context, s mail.Submission, log *zap.SugaredLogger) mail.Result
}

// ContactController serves POST /send-email.
type ContactController struct {
	log   *zap.SugaredLogger
	relay Deliverer
}

func NewContactController(log *zap.SugaredLogger, relay Deliverer) *ContactController {
	return &ContactController{log: log, relay: relay}
}

func (cc *ContactController) BasePath() string {
	return "/"
}

func (cc *ContactController) Handlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{allowAnyOrigin}
}

func (cc *ContactController) Register(rg *gin.RouterGroup) error {
	// Routing matches the path only; a query string does not change the route.
	rg.POST("/send-email", cc.sendEmail)
	return nil
}

func (cc *ContactController) sendEmail(c *gin.Context) {
	log := system.GetReqLogger(c, cc.log)

	submission, err := ParseSubmission(c.Request)
	if err != nil {
		metrics.SubmissionsReceived.WithLabelValues("malformed").Inc()
		apiresponses.RespondInternalError(c, apiresponses.MessageInvalidRequest, err, log)
		return
	}

	result := cc.relay.Deliver(c.Request.Context(), submission, log)
	metrics.SubmissionsReceived.WithLabelValues(result.Outcome.String()).Inc()
	if result.Outcome == mail.OutcomeFailed {
		apiresponses.RespondSendFailed(c)
		return
	}
	apiresponses.RespondSuccess(c)
}

// ParseSubmission reads the JSON body {"nome", "email", "whatsapp"}. Missing
// keys default to "", non-string values are rendered as text. Anything that
// is not a JSON object, or a body without Content-Length, is malformed.
func ParseSubmission(r *http.Request) (mail.Submission, error) {
	if r.ContentLength < 0 {
		return mail.Submission{}, fmt.Errorf("%w: missing Content-Length", ErrMalformedInput)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxSubmissionBytes+1))
	if err != nil {
		return mail.Submission{}, fmt.Errorf("%w: reading body: %v", ErrMalformedInput, err)
	}
	if len(body) > MaxSubmissionBytes {
		return mail.Submission{}, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedInput, MaxSubmissionBytes)
	}

	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return mail.Submission{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return mail.Submission{}, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedInput)
	}
	if fields == nil {
		return mail.Submission{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedInput)
	}

	return mail.Submission{
		Name:  field(fields, "nome"),
		Email: field(fields, "email"),
		Phone: field(fields, "whatsapp"),
	}, nil
}

func field(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
