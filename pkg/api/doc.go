// Package api implements the formrelay HTTP server (Gin-based): the contact
// form endpoint, CORS preflight handling, static landing page assets, health,
// version and Prometheus metrics endpoints.
package api
