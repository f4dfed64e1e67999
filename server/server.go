// Package server exposes generation over HTTP: post a configuration, get
// back a rendered MIDI or WAV file.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options holds server configuration
type Options struct {
	Port int
}

// Server is the HTTP generation service
type Server struct {
	opts   Options
	router *chi.Mux
	logger *slog.Logger
}

// New creates a server with routes configured
func New(opts Options) *Server {
	s := &Server{
		opts:   opts,
		router: chi.NewRouter(),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/generate", s.handleGenerate)
	r.Get("/config", s.handleDefaultConfig)
}

// Handler returns the router, useful for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server and blocks until shutdown
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // WAV renders take a while
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	s.logger.Info("server starting", slog.Int("port", s.opts.Port))

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}
