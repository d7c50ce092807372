package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/reeldle/internal/api/handlers"
	"github.com/amaumene/reeldle/internal/api/middleware"
	"github.com/amaumene/reeldle/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Game is everything the HTTP layer needs from the game controller
type Game interface {
	handlers.Game
	handlers.Clock
}

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	game     Game
	searcher handlers.Searcher
	gatherer prometheus.Gatherer
	logger   *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, game Game, searcher handlers.Searcher, gatherer prometheus.Gatherer, logger *logrus.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		game:     game,
		searcher: searcher,
		gatherer: gatherer,
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return middleware.Logging(mux, s.logger)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.game, s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Autocomplete
	searchHandler := handlers.NewSearchHandler(s.searcher, s.logger)
	mux.HandleFunc("GET /api/search", searchHandler.ServeHTTP)

	// Game
	gameHandler := handlers.NewGameHandler(s.game, s.logger)
	mux.HandleFunc("GET /api/stats", gameHandler.Stats)
	mux.HandleFunc("POST /api/practice/new", gameHandler.NewPractice)
	mux.HandleFunc("GET /api/{mode}", gameHandler.Session)
	mux.HandleFunc("POST /api/{mode}/guess", gameHandler.Guess)
	mux.HandleFunc("POST /api/{mode}/giveup", gameHandler.GiveUp)
	mux.HandleFunc("POST /api/{mode}/hint", gameHandler.Hint)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
