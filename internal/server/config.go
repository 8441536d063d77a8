package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// BoxDir is the directory holding description files and the artifact
	// files served from the document root.
	BoxDir string

	// NamePrefix is prepended to every logical box name.
	NamePrefix string

	// PathPrefix is the mount point of the catalog API.
	PathPrefix string

	// CacheTTL bounds how long rendered responses stay in memory. Cache
	// keys carry the catalog generation, so correctness never depends on
	// this value.
	CacheTTL time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "",
		Port:         8000,
		NamePrefix:   "bento",
		PathPrefix:   "/boxes",
		CacheTTL:     5 * time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
