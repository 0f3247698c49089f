package apiresponses

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

// Client-facing messages. Internal error text never reaches the client.
const (
	MessageSendFailed     = "Erro ao enviar email"
	MessageInvalidRequest = "Erro ao processar requisição"
)

// successBody matches byte for byte what the landing page script expects.
var successBody = []byte(`{"success": true}`)

// APIError is the error envelope: {"error": "<message>"}.
type APIError struct {
	Error string `json:"error"`
}

// RespondSuccess sends 200 {"success": true}.
func RespondSuccess(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeJSON, successBody)
}

// RespondError sends {"error": message} with the given status.
func RespondError(c *gin.Context, status int, message string) {
	encoded, err := json.Marshal(message)
	if err != nil {
		c.AbortWithStatus(status)
		return
	}
	c.Data(status, contentTypeJSON, append(append([]byte(`{"error": `), encoded...), '}'))
}

// RespondSendFailed sends a 500 with the generic delivery failure message.
// The transport error must already have been logged.
func RespondSendFailed(c *gin.Context) {
	RespondError(c, http.StatusInternalServerError, MessageSendFailed)
}

// RespondInternalError logs the error with full details but returns a
// sanitized message to the client.
func RespondInternalError(c *gin.Context, message string, err error, log *zap.SugaredLogger) {
	if log != nil {
		log.Errorw("Erro ao processar requisição", "error", err)
	}
	RespondError(c, http.StatusInternalServerError, message)
}

// RespondStatus sends a bare status code with an empty body.
func RespondStatus(c *gin.Context, status int) {
	c.AbortWithStatus(status)
}

// RespondOK sends a 200 OK response with the given data.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
