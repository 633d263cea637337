package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Server represents the HTTP API server.
type Server struct {
	httpServer   *http.Server
	calculator   CalculatorPort
	log          *logrus.Logger
	corsOrigins  []string
	rateLimit    func(http.Handler) http.Handler
	startTime    time.Time
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// Option configures optional server behavior.
type Option func(*Server)

// WithLogger overrides the request logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithCORSOrigins overrides the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithRateLimit installs a rate-limiting middleware in the handler chain.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(s *Server) { s.rateLimit = mw }
}

// NewServer creates a new API server.
func NewServer(calculator CalculatorPort, readTimeout, writeTimeout, idleTimeout time.Duration, opts ...Option) *Server {
	s := &Server{
		calculator:   calculator,
		log:          logrus.StandardLogger(),
		corsOrigins:  []string{"*"},
		startTime:    time.Now(),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		idleTimeout:  idleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router wrapped in the full middleware chain.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.RegisterRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet},
	})

	chain := alice.New(s.requestLogger, c.Handler)
	if s.rateLimit != nil {
		chain = chain.Append(s.rateLimit)
	}
	return chain.Then(router)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
