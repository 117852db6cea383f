// Package config holds the runtime configuration resolved once at startup.
// The serve command reads flags and environment exactly once, builds an
// immutable Config, and passes it explicitly into the server; nothing reads
// process environment ad hoc after that.
package config

import (
	"fmt"
	"strconv"
)

const (
	// DefaultPort is the port bound when PORT is unset or empty.
	DefaultPort = "8501"

	// DefaultDataDir is where room image files are stored on disk.
	DefaultDataDir = "data"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""
)

// Config is the resolved runtime configuration. Built once in the serve
// command, never mutated afterwards.
type Config struct {
	// Port is the TCP port the HTTP server binds, 1-65535.
	Port int

	// Headless is always true: the server has no interactive mode and
	// never prompts. The field exists so callers state the mode explicitly
	// instead of relying on an implicit global.
	Headless bool

	// CORSEnabled controls whether cross-origin requests are answered.
	// Disabled by default; same-origin clients are unaffected.
	CORSEnabled bool

	// DataDir is the root directory for room image storage.
	DataDir string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string
}

// Resolve builds the runtime configuration from already-extracted flag/env
// values. A malformed port is rejected here, before any socket is opened,
// so misconfiguration surfaces as a clear startup error instead of a
// silently wrong binding.
func Resolve(port string, corsEnabled bool, dataDir, databaseURL string) (*Config, error) {
	p, err := ParsePort(port)
	if err != nil {
		return nil, err
	}

	if dataDir == "" {
		dataDir = DefaultDataDir
	}

	return &Config{
		Port:        p,
		Headless:    true,
		CORSEnabled: corsEnabled,
		DataDir:     dataDir,
		DatabaseURL: databaseURL,
	}, nil
}

// ParsePort parses a port value from flag or environment. An unset or empty
// value falls back to DefaultPort; anything else must be an integer in
// 1-65535.
func ParsePort(s string) (int, error) {
	if s == "" {
		s = DefaultPort
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range (1-65535)", n)
	}

	return n, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
