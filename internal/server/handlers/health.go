package handlers

import (
	"net/http"

	"github.com/boxcat/boxcat/internal/server/response"
)

// HandleHealth handles GET /health. It triggers the same staleness check as
// a catalog lookup, so a broken description file surfaces here too.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	cat, err := h.store.Catalog()
	if err != nil {
		h.logger.Error().Err(err).Msg("Catalog rebuild failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "boxcat",
		"boxes":   cat.Len(),
	})
}
