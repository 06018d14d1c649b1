// Package server exposes the skills pipeline and the resume renderer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	DefaultAddress         = ":8080"
	DefaultMaxBodyBytes    = 10 << 20
	DefaultShutdownTimeout = 30 * time.Second

	readHeaderTimeout = 5 * time.Second
)

type Config struct {
	Address         string        `mapstructure:"address"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

func DefaultConfig() Config {
	return Config{
		Address:         DefaultAddress,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Deps are the services behind the routes.
type Deps struct {
	Skills   SkillsService
	Renderer ResumeRenderer
	Logger   *zap.Logger
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg Config, deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	h := &handler{
		skills:   deps.Skills,
		renderer: deps.Renderer,
		logger:   deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(MaxBodyBytes(cfg.MaxBodyBytes))

	r.Get("/health", h.health)
	r.Post("/skills/extract", h.extractSkills)

	r.Route("/resume", func(r chi.Router) {
		r.Post("/skills", h.updateSkills)
		r.Post("/pdf", h.renderPDF)
	})

	return r
}

type Server struct {
	cfg    Config
	http   *http.Server
	logger *zap.Logger
}

func New(cfg Config, deps Deps) *Server {
	defaults := DefaultConfig()
	if cfg.Address == "" {
		cfg.Address = defaults.Address
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              cfg.Address,
			Handler:           NewRouter(cfg, deps),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: deps.Logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting the server", zap.String("address", listener.Addr().String()))
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down the server", zap.Duration("timeout", s.cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited")
	return nil
}
