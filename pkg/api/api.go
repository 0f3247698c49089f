package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/apiresponses"
	"github.com/dafonte/formrelay/pkg/config"
	"github.com/dafonte/formrelay/pkg/metrics"
	"github.com/dafonte/formrelay/pkg/system"
	"github.com/dafonte/formrelay/pkg/version"
)

type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

type Server struct {
	gin    *gin.Engine
	config config.Config
	log    *zap.SugaredLogger
}

// NewServer builds the gin engine with request logging, panic recovery and
// CORS. Requests that match no registered route fall through to the preflight
// responder (OPTIONS), the static asset handler (GET/HEAD) or a bare 404.
func NewServer(log *zap.Logger, cfg config.Config, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// Near-miss paths such as /send-email/ must reach NoRoute, not a redirect.
	engine.RedirectTrailingSlash = false
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		system.RequestLogger(log.Sugar(), uuid.NewString),
		corsMiddleware(),
	)

	s := &Server{
		gin:    engine,
		config: cfg,
		log:    log.Sugar(),
	}

	assets := ServeStatic(cfg.Server.StaticDir, s.log)
	engine.NoRoute(func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodOptions:
			Preflight(c)
		case http.MethodGet, http.MethodHead:
			assets(c)
		default:
			apiresponses.RespondStatus(c, http.StatusNotFound)
		}
	})

	engine.GET("/healthz", s.getHealth)
	engine.GET("/version", s.getVersion)
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	return s
}

func (s *Server) RegisterAll(controllers []APIController) error {
	r := s.gin.Group("/")
	for _, c := range controllers {
		if err := c.Register(r.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Listen serves until ctx is canceled, then shuts down gracefully within the
// configured shutdown timeout. A clean shutdown returns nil.
func (s *Server) Listen(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.ListenAddress,
		Handler:           s.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Infow("Shutting down server", "address", s.config.Server.ListenAddress)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeoutDuration())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

func (s *Server) getHealth(c *gin.Context) {
	apiresponses.RespondOK(c, HealthResponse{Status: "ok", Mode: s.config.Mode()})
}

func (s *Server) getVersion(c *gin.Context) {
	apiresponses.RespondOK(c, version.GetBuildInfo())
}
