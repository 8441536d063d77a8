// Package catalog aggregates per-version box description files from a
// directory on disk into an in-memory catalog of versioned box metadata.
//
// Each box version lives in its own *.metadata.json file. The Store groups
// files by logical box name, orders versions by semantic version precedence,
// and caches the aggregated catalog until any source file's mtime advances.
package catalog

import (
	"encoding/json"
	"sort"

	"github.com/boxcat/boxcat/pkg/errors"
)

// Provider describes one platform-specific artifact available for a box
// version. Beyond the required "file" field, provider records carry
// arbitrary passthrough fields (checksums and the like) which are preserved
// verbatim on output.
type Provider struct {
	// File is the root-relative path of the artifact served by the
	// document-root collaborator.
	File string

	// Fields holds every other key of the provider record, undecoded.
	Fields map[string]json.RawMessage
}

// UnmarshalJSON decodes a provider record, failing fast when the required
// "file" field is missing or blank.
func (p *Provider) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fileRaw, ok := raw["file"]
	if !ok {
		return errors.New(`provider record missing required "file" field`)
	}
	var file string
	if err := json.Unmarshal(fileRaw, &file); err != nil {
		return errors.New(`provider "file" field must be a string`)
	}
	if file == "" {
		return errors.New(`provider "file" field must not be empty`)
	}

	delete(raw, "file")
	p.File = file
	p.Fields = raw
	return nil
}

// MarshalJSON re-emits the provider record with its passthrough fields and
// the "file" field restored.
func (p Provider) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Fields)+1)
	for k, v := range p.Fields {
		out[k] = v
	}
	fileRaw, err := json.Marshal(p.File)
	if err != nil {
		return nil, err
	}
	out["file"] = fileRaw
	return json.Marshal(out)
}

// DescriptionFile is the decoded form of one *.metadata.json file: a single
// version of a single box.
type DescriptionFile struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Providers   []Provider `json:"providers"`
}

// Validate checks the required fields of a decoded description file.
func (d *DescriptionFile) Validate() error {
	if d.Name == "" {
		return errors.New(`missing required "name" field`)
	}
	if d.Version == "" {
		return errors.New(`missing required "version" field`)
	}
	return nil
}

// Release pairs one version string with its provider artifacts.
type Release struct {
	Version   string     `json:"version"`
	Providers []Provider `json:"providers"`
}

// Entry is the canonical record for one logical box name. Name and
// Description come from the highest-versioned description file; Versions is
// ordered ascending by semantic version.
type Entry struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Versions    []Release `json:"versions"`
}

// Catalog is an immutable snapshot of every box known at build time.
// It is built wholesale on each rebuild and never patched in place, so a
// reference to a Catalog is always internally consistent.
type Catalog struct {
	entries    map[string]Entry
	names      []string
	generation uint64
}

func newCatalog(entries map[string]Entry, generation uint64) *Catalog {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Catalog{
		entries:    entries,
		names:      names,
		generation: generation,
	}
}

// Entry returns the catalog entry for the given logical name. Absence is a
// normal outcome, reported through the boolean rather than an error.
func (c *Catalog) Entry(name string) (Entry, bool) {
	entry, ok := c.entries[name]
	return entry, ok
}

// Names returns every logical box name in the catalog, sorted.
func (c *Catalog) Names() []string {
	return c.names
}

// Len returns the number of logical box names in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Generation identifies the rebuild that produced this catalog. It changes
// on every rebuild and is suitable as a cache key component for derived
// values such as rendered responses.
func (c *Catalog) Generation() uint64 {
	return c.generation
}
