package paperqa

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/paperqa-io/paperqa/internal/model"
	"github.com/paperqa-io/paperqa/internal/paperqa/biz"
	"github.com/paperqa-io/paperqa/internal/paperqa/handler"
	"github.com/paperqa-io/paperqa/internal/paperqa/router"
	httpopts "github.com/paperqa-io/paperqa/pkg/options/server/http"
)

const requestIDHeader = "X-Request-ID"

// Server wraps the HTTP server for the PaperQA service.
type Server struct {
	srv             *http.Server
	health          *handler.HealthHandler
	shutdownTimeout time.Duration
}

// NewServer builds the gin engine and the HTTP server.
func NewServer(opts *httpopts.Options, paperHandler *handler.PaperHandler, healthHandler *handler.HealthHandler) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.MaxMultipartMemory = opts.MaxUploadSize
	engine.Use(requestID(), accessLog(), gin.Recovery())
	engine.Use(limitBody(opts.MaxUploadSize))
	engine.Use(readyGate(healthHandler))

	router.Register(engine, paperHandler, healthHandler)

	return &Server{
		srv: &http.Server{
			Addr:         opts.Addr,
			Handler:      engine,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		health:          healthHandler,
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Run starts the server and blocks until a termination signal arrives.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.health.SetReady(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Infow("Shutting down server...", "signal", sig.String())
	}

	s.health.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}

// requestID attaches a request ID to every request and response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs one line per completed request.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		)
	}
}

// readyGate rejects pipeline requests until startup has completed. Probes
// and the swagger UI are always served.
func readyGate(health *handler.HealthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/healthz", "/readyz":
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Next()
			return
		}
		if !health.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				model.ErrorResponse{Error: biz.ErrNotReady.Error()})
			return
		}
		c.Next()
	}
}

// limitBody caps the request body size.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
