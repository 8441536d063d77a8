package server

import (
	"net/http"
	"strings"

	"github.com/boxcat/boxcat/internal/server/handlers"
	"github.com/boxcat/boxcat/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.store, s.cache, s.logger)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := strings.TrimSuffix(s.config.PathPrefix, "/")

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HandleHealth(w, r)
	})

	// Exact mount point: list view.
	mux.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HandleListBoxes(w, r)
	})

	// Everything under the mount point. Logical names contain "/"
	// ("bento/debian-12"), so the whole remaining path is the name.
	mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix+"/"), "/")
		if name == "" {
			h.HandleListBoxes(w, r)
			return
		}
		h.HandleGetBox(w, r, name)
	})

	// Document root: the box directory's artifact files are served
	// byte-for-byte, which is what the rewritten provider URLs point at.
	mux.Handle("/", http.FileServer(http.Dir(s.config.BoxDir)))
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.RequestID(),
	)(handler)
}
