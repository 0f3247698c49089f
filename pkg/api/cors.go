package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Content-Type"}
)

// corsMiddleware answers browser preflights (requests carrying an Origin
// header) and decorates cross-origin responses for any origin.
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              corsMethods,
		AllowHeaders:              corsHeaders,
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	})
}

// Preflight answers OPTIONS requests the CORS middleware let through
// (no Origin header, or same-origin): 200 with permissive headers, no body.
func Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.AbortWithStatus(http.StatusOK)
}

// allowAnyOrigin sets the CORS origin header on responses that must carry it
// regardless of whether the request was cross-origin.
func allowAnyOrigin(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Next()
}
