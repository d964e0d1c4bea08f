package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"opensky-state-decoder/internal/api"
	"opensky-state-decoder/internal/config"
	"opensky-state-decoder/pkg/logger"
)

type server struct {
	srv    *http.Server
	logger *logger.Logger
}

func newServer(cfg config.ServerConfig, handlers *api.Server, log *logger.Logger) *server {
	mux := http.NewServeMux()
	handlers.SetupRoutes(mux)

	return &server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: log,
	}
}

// start serves until the server is shut down; errors are sent to errc.
func (s *server) start(errc chan<- error) {
	go func() {
		s.logger.Info("Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
}

func (s *server) shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
