package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/boxcat/boxcat/pkg/errors"
)

// MetadataSuffix is the filename convention for description files; anything
// else in the box directory is ignored by the scan (artifact files live in
// the same directory).
const MetadataSuffix = ".metadata.json"

// Store owns the directory scan, per-file decode, grouping and version
// ordering, and the mtime-driven cache of the aggregated Catalog.
//
// Catalog and Entry are safe for concurrent use: a rebuild assembles a
// complete new Catalog off to the side and publishes it with a single
// atomic pointer swap, so readers see either the old snapshot or the new
// one, never a mix. Two requests that both observe staleness may rebuild
// redundantly; the work is idempotent and the last swap wins.
type Store struct {
	dir    string
	prefix string
	now    func() time.Time

	gen     atomic.Uint64
	current atomic.Pointer[build]
}

// build is one published catalog snapshot together with the bookkeeping the
// staleness check needs.
type build struct {
	catalog    *Catalog
	sourceTime time.Time // max mtime across source files at build time
	builtAt    time.Time // wall clock when the build completed
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store reading description files from dir. prefix is
// prepended to every logical box name as "<prefix>/<raw-name>".
func New(dir, prefix string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the current catalog, rebuilding first if any description
// file changed since the last successful build. An empty directory yields an
// empty catalog, not an error. A malformed description file aborts the whole
// rebuild with a ParseError or VersionParseError; no partial catalog is
// returned.
func (s *Store) Catalog() (*Catalog, error) {
	files, sourceTime, err := s.sweep()
	if err != nil {
		return nil, err
	}

	if b := s.current.Load(); b != nil && !stale(b, files, sourceTime) {
		return b.catalog, nil
	}

	b, err := s.rebuild(files, sourceTime)
	if err != nil {
		return nil, err
	}
	s.current.Store(b)
	return b.catalog, nil
}

// Entry looks up one logical box name in the current catalog. The boolean
// reports absence; the error reports a failed rebuild.
func (s *Store) Entry(name string) (Entry, bool, error) {
	cat, err := s.Catalog()
	if err != nil {
		return Entry{}, false, err
	}
	entry, ok := cat.Entry(name)
	return entry, ok, nil
}

// Stats reports the state of the last successful build. The boolean is
// false before the first build.
type Stats struct {
	Boxes      int
	Generation uint64
	LastBuild  time.Time
}

// Stats returns the current build statistics without triggering a rebuild.
func (s *Store) Stats() (Stats, bool) {
	b := s.current.Load()
	if b == nil {
		return Stats{}, false
	}
	return Stats{
		Boxes:      b.catalog.Len(),
		Generation: b.catalog.Generation(),
		LastBuild:  b.builtAt,
	}, true
}

// stale reports whether the published build b is out of date relative to the
// current directory contents. With zero description files the directory is
// considered fresh once a build exists, until a file appears.
func stale(b *build, files []sourceFile, sourceTime time.Time) bool {
	if len(files) == 0 {
		return false
	}
	return sourceTime.After(b.sourceTime)
}

// sourceFile is one description file seen by the stat sweep.
type sourceFile struct {
	path  string
	mtime time.Time
}

// sweep lists the description files in the source directory in filename
// order and computes the maximum modification time. With zero matching
// files the maximum is "now", per the staleness policy. Only stats are
// taken; file contents are not read here.
func (s *Store) sweep() ([]sourceFile, time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("listing box directory %s: %w", s.dir, err)
	}

	var files []sourceFile
	var maxMTime time.Time

	// os.ReadDir returns entries sorted by filename, which is the
	// documented scan order and the tie-break for equal versions.
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), MetadataSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				// Removed between ReadDir and Info.
				continue
			}
			return nil, time.Time{}, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, sourceFile{
			path:  filepath.Join(s.dir, entry.Name()),
			mtime: info.ModTime(),
		})
		if info.ModTime().After(maxMTime) {
			maxMTime = info.ModTime()
		}
	}

	if len(files) == 0 {
		maxMTime = s.now()
	}
	return files, maxMTime, nil
}

// member is one decoded description file with its parsed version, the
// intermediate record of the rebuild.
type member struct {
	desc DescriptionFile
	ver  *semver.Version
}

// rebuild decodes every description file and assembles a complete new
// catalog snapshot. Any decode or version failure aborts the rebuild.
func (s *Store) rebuild(files []sourceFile, sourceTime time.Time) (*build, error) {
	groups := make(map[string][]member)

	for _, f := range files {
		m, err := s.decode(f.path)
		if err != nil {
			return nil, err
		}
		groups[m.desc.Name] = append(groups[m.desc.Name], m)
	}

	entries := make(map[string]Entry, len(groups))
	for name, members := range groups {
		// Stable sort preserves filename scan order for versions that
		// compare equal (build metadata is ignored by precedence).
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].ver.Compare(members[j].ver) < 0
		})

		releases := make([]Release, len(members))
		for i, m := range members {
			releases[i] = Release{Version: m.desc.Version, Providers: m.desc.Providers}
		}

		// Canonical identity comes from the highest-versioned member.
		highest := members[len(members)-1]
		entries[name] = Entry{
			Name:        highest.desc.Name,
			Description: highest.desc.Description,
			Versions:    releases,
		}
	}

	return &build{
		catalog:    newCatalog(entries, s.gen.Add(1)),
		sourceTime: sourceTime,
		builtAt:    s.now(),
	}, nil
}

// decode reads and validates one description file, applying the name prefix
// and the default description.
func (s *Store) decode(path string) (member, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return member{}, errors.WrapParse(path, err)
	}

	var desc DescriptionFile
	if err := json.Unmarshal(data, &desc); err != nil {
		return member{}, errors.WrapParse(path, err)
	}
	if err := desc.Validate(); err != nil {
		return member{}, errors.NewParseError(path, err.Error(), err)
	}

	ver, err := semver.StrictNewVersion(desc.Version)
	if err != nil {
		return member{}, errors.WrapVersion(path, desc.Version, err)
	}

	if s.prefix != "" {
		desc.Name = s.prefix + "/" + desc.Name
	}
	if desc.Description == "" {
		desc.Description = "N/A"
	}

	return member{desc: desc, ver: ver}, nil
}
