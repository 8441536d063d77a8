package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/boxcat/boxcat/internal/server/response"
	"github.com/boxcat/boxcat/pkg/catalog"
)

// listItem is one box in the list view: the URL of its detail endpoint and
// its version strings in ascending order.
type listItem struct {
	URL      string   `json:"url"`
	Versions []string `json:"versions"`
}

// detailRelease is one version of a box in the detail view, with provider
// file paths rewritten into absolute URLs.
type detailRelease struct {
	Version   string           `json:"version"`
	Providers []map[string]any `json:"providers"`
}

// detailEntry is the detail view of one box.
type detailEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Versions    []detailRelease `json:"versions"`
}

// HandleListBoxes handles GET <mount>. Detail URLs are built by appending
// the box name to the literal URL the list endpoint was reached through, so
// they stay correct under any host, scheme, or mount point.
func (h *Handlers) HandleListBoxes(w http.ResponseWriter, r *http.Request) {
	cat, err := h.store.Catalog()
	if err != nil {
		h.logger.Error().Err(err).Msg("Catalog rebuild failed")
		response.InternalError(w)
		return
	}

	base := requestScheme(r) + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/")

	cacheKey := fmt.Sprintf("list:%d:%s", cat.Generation(), base)
	if body, found := h.cache.Get(cacheKey); found {
		response.Raw(w, http.StatusOK, body)
		return
	}

	items := make([]listItem, 0, cat.Len())
	for _, name := range cat.Names() {
		entry, _ := cat.Entry(name)
		versions := make([]string, len(entry.Versions))
		for i, rel := range entry.Versions {
			versions[i] = rel.Version
		}
		items = append(items, listItem{
			URL:      base + "/" + name,
			Versions: versions,
		})
	}

	body, err := response.Marshal(items)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render box list")
		response.InternalError(w)
		return
	}

	h.cache.Set(cacheKey, body)
	response.Raw(w, http.StatusOK, body)
}

// HandleGetBox handles GET <mount>/<name>. Provider file paths resolve
// against the server's document root, not the mount point, so the rewritten
// URL is "<scheme>://<host>/<file>".
func (h *Handlers) HandleGetBox(w http.ResponseWriter, r *http.Request, name string) {
	cat, err := h.store.Catalog()
	if err != nil {
		h.logger.Error().Err(err).Msg("Catalog rebuild failed")
		response.InternalError(w)
		return
	}

	entry, ok := cat.Entry(name)
	if !ok {
		response.NotFoundBox(w, name)
		return
	}

	root := requestScheme(r) + "://" + r.Host + "/"

	cacheKey := fmt.Sprintf("detail:%d:%s:%s", cat.Generation(), root, name)
	if body, found := h.cache.Get(cacheKey); found {
		response.Raw(w, http.StatusOK, body)
		return
	}

	body, err := response.Marshal(detailView(entry, root))
	if err != nil {
		h.logger.Error().Err(err).Str("box", name).Msg("Failed to render box detail")
		response.InternalError(w)
		return
	}

	h.cache.Set(cacheKey, body)
	response.Raw(w, http.StatusOK, body)
}

// detailView shapes an entry for the detail endpoint, replacing each
// provider's "file" field with an absolute "url" and preserving every
// passthrough field.
func detailView(entry catalog.Entry, root string) detailEntry {
	releases := make([]detailRelease, len(entry.Versions))
	for i, rel := range entry.Versions {
		providers := make([]map[string]any, len(rel.Providers))
		for j, p := range rel.Providers {
			record := make(map[string]any, len(p.Fields)+1)
			for k, v := range p.Fields {
				record[k] = v
			}
			record["url"] = root + p.File
			providers[j] = record
		}
		releases[i] = detailRelease{Version: rel.Version, Providers: providers}
	}

	return detailEntry{
		Name:        entry.Name,
		Description: entry.Description,
		Versions:    releases,
	}
}
