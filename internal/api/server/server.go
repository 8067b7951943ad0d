package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/handlers"
	"github.com/Prashantramappa/qwen-chat-personal/internal/logger"
)

// Server is the chat gateway HTTP server. The rule table and backend handle
// live inside the injected handler; the server owns only transport concerns.
type Server struct {
	addr    string
	handler *handlers.Handler
	cors    *CORSConfig
	server  *http.Server

	localLogger *logger.Logger
}

func New(addr string, handler *handlers.Handler, cors *CORSConfig) *Server {
	if cors == nil {
		cors = DefaultCORSConfig()
	}
	return &Server{
		addr:        addr,
		handler:     handler,
		cors:        cors,
		localLogger: logger.NewLogger("Server"),
	}
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	mux := http.NewServeMux()
	registerRoutes(mux, s.handler)

	chained := Chain(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(s.cors),
	)(mux)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      chained,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.localLogger.Info("Gateway started on http://" + s.addr + "/")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.localLogger.Info("Gateway shutting down")
	return s.server.Shutdown(ctx)
}
