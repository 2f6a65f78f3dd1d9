// Package server wires the HTTP surface: routes, middleware and lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/osse101/rewardwheel/internal/handler"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/sse"
)

// Options carries everything the router needs
type Options struct {
	Addr           string
	APIKey         string
	TrustedProxies []string
	AllowedOrigins []string
	Wheel          *handler.WheelHandler
	Hub            *sse.Hub
	Ready          []handler.ReadinessCheck
}

// Server owns the listener lifecycle
type Server struct {
	httpServer *http.Server
}

func NewServer(opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: ReadHeaderTimeout,
			IdleTimeout:       IdleTimeout,
			// no WriteTimeout: the event stream stays open
		},
	}
}

// Start blocks serving requests. A clean Stop makes it return nil.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
