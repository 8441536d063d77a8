// Package handlers provides HTTP request handlers for the boxcat API.
package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/boxcat/boxcat/internal/server/cache"
	"github.com/boxcat/boxcat/pkg/catalog"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	store  *catalog.Store
	cache  *cache.Cache
	logger *zerolog.Logger
}

// New creates a new Handlers instance.
func New(store *catalog.Store, cache *cache.Cache, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// requestScheme returns the scheme the request was reached through.
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
