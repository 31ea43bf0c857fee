package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"autosheetify/internal/auth"
	"autosheetify/internal/library"
	"autosheetify/internal/logging"
	"autosheetify/internal/orchestrator"
)

const (
	defaultLongPoll     = 30 * time.Second
	shutdownGracePeriod = 5 * time.Second
)

// Server is the local HTTP bridge.
type Server struct {
	machine   *orchestrator.Machine
	gate      *auth.Gate
	library   *library.Store
	token     string
	uploadDir string
	longPoll  time.Duration
	logger    *slog.Logger

	// submitCtx outlives individual requests; submissions run under it.
	submitCtx context.Context

	// inputMu orders input changes with spool bookkeeping.
	inputMu sync.Mutex
	spools  *spoolSet

	engine *gin.Engine
}

// Option customizes a Server.
type Option func(*Server)

// WithLibrary enables the library routes.
func WithLibrary(store *library.Store) Option {
	return func(s *Server) {
		s.library = store
	}
}

// WithToken requires a bearer token on /api routes.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithUploadDir sets where uploaded media is spooled.
func WithUploadDir(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.uploadDir = dir
		}
	}
}

// WithLongPollTimeout bounds GET /api/state?wait=1.
func WithLongPollTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.longPoll = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSubmitContext sets the context submissions run under. Serve replaces
// it with its own context.
func WithSubmitContext(ctx context.Context) Option {
	return func(s *Server) {
		if ctx != nil {
			s.submitCtx = ctx
		}
	}
}

// NewServer builds the bridge around machine. gate is only read to report
// whether a submission would be accepted.
func NewServer(machine *orchestrator.Machine, gate *auth.Gate, opts ...Option) *Server {
	s := &Server{
		machine:   machine,
		gate:      gate,
		uploadDir: os.TempDir(),
		longPoll:  defaultLongPoll,
		submitCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "api")
	s.spools = newSpoolSet(s.logger)
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))

	router.GET("/health", s.health)

	api := router.Group("/api")
	api.Use(bearerAuth(s.token))
	{
		api.GET("/state", s.getState)
		api.PUT("/input/file", s.putInputFile)
		api.PUT("/input/url", s.putInputURL)
		api.DELETE("/input", s.deleteInput)
		api.PUT("/instrument", s.putInstrument)
		api.POST("/submit", s.postSubmit)
		api.POST("/reset", s.postReset)
		api.GET("/library", s.getLibrary)
		api.POST("/library", s.postLibrary)
	}
	return router
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully. Remaining spooled uploads are removed on exit.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.submitCtx = ctx
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("http bridge listening", logging.String("addr", ln.Addr().String()))

	defer s.spools.removeAll()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http bridge stopped")
	return nil
}
