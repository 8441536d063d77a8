// Package server provides the HTTP server implementation for the boxcat API.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxcat/boxcat/internal/server/cache"
	"github.com/boxcat/boxcat/pkg/catalog"
	"github.com/boxcat/boxcat/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	store     *catalog.Store
	cache     *cache.Cache
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(store *catalog.Store, logger *zerolog.Logger, cfg Config) (*Server, error) {
	if store == nil {
		return nil, errors.New("catalog store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.BoxDir == "" {
		return nil, errors.New("box directory is required")
	}
	if !strings.HasPrefix(cfg.PathPrefix, "/") || cfg.PathPrefix == "/" {
		return nil, errors.New(`path prefix must start with "/" and not be the root`)
	}

	// Set defaults
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &Server{
		store:     store,
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Cache returns the server's response cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
