package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolpass-board-service/internal/logger"
)

type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

func NewServer(router *gin.Engine, address string, port int, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", address, port),
			Handler: router,
		},
		log: log,
	}
}

func (s *Server) Run() error {
	s.log.Info("HTTP server listening", slog.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
