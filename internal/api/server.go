package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Project-Sylos/Tabula/internal/types"
	"github.com/Project-Sylos/Tabula/sdk"
	"github.com/go-chi/chi/v5"
)

// Server represents the HTTP API server
type Server struct {
	router *chi.Mux
	tb     *sdk.Tabula
	config *types.APIConfig
	http   *http.Server
}

// NewServer creates a new API server
func NewServer(tb *sdk.Tabula, config *types.APIConfig) *Server {
	router := NewRouter(tb).SetupRoutes()

	return &Server{
		router: router,
		tb:     tb,
		config: config,
		http: &http.Server{
			Addr:        Addr(config),
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			// Large datasets take a while to generate and download
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Addr returns the listen address for an API config
func Addr(config *types.APIConfig) string {
	return fmt.Sprintf("%s:%d", config.Host, config.Port)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := s.http.Addr

	fmt.Printf("Starting Tabula API server on %s\n", addr)
	fmt.Printf("API endpoints available at http://%s/api/v1/\n", addr)
	fmt.Printf("Health check available at http://%s/health\n", addr)

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// GetRouter returns the configured router
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// Stop drains in-flight requests and closes the catalog
func (s *Server) Stop(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	return s.tb.Close()
}
