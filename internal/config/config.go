// Package config persists tool settings as a JSON document: last used paths,
// exclusion rules and the timestamp-suffix flag. A missing or broken document
// is never fatal, loading falls back to defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"procopy/internal/infra/fs"
	"procopy/internal/logging"
)

// Default exclusion rules, used when the document carries no rule lists.
var (
	DefaultExcludedExact  = []string{".git", "node_modules"}
	DefaultExcludedPrefix = []string{"firebase-export-"}
)

type Config struct {
	SourceDir       string   `json:"source_dir"`
	DestDir         string   `json:"dest_dir"`
	ExcludedExact   []string `json:"excluded_exact"`
	ExcludedPrefix  []string `json:"excluded_prefix"`
	ExcludedGlob    []string `json:"excluded_glob,omitempty"`
	AppendTimestamp bool     `json:"append_timestamp"`
}

// Default returns the configuration used when no document exists.
func Default() Config {
	return Config{
		ExcludedExact:  append([]string(nil), DefaultExcludedExact...),
		ExcludedPrefix: append([]string(nil), DefaultExcludedPrefix...),
	}
}

// DefaultPath returns the well-known config file location. PROCOPY_CONFIG
// overrides it; otherwise the file lives under the user config directory.
func DefaultPath() string {
	if p := os.Getenv("PROCOPY_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(dir, "procopy", "config.json")
}

// Store reads and writes the configuration document at a fixed path.
type Store struct {
	Path   string
	Logger logging.Logger
}

// Load reads the document. Missing or malformed files fall back to Default;
// absent keys keep their defaults. Source and destination paths that no
// longer exist on disk are dropped rather than reported.
func (s Store) Load() Config {
	cfg := Default()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logger.Errorf("reading config %s: %v", s.Path, err)
		}
		return cfg
	}

	// Pointer slices distinguish an absent key from an explicitly empty list.
	var doc struct {
		SourceDir       string    `json:"source_dir"`
		DestDir         string    `json:"dest_dir"`
		ExcludedExact   *[]string `json:"excluded_exact"`
		ExcludedPrefix  *[]string `json:"excluded_prefix"`
		ExcludedGlob    *[]string `json:"excluded_glob"`
		AppendTimestamp bool      `json:"append_timestamp"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.Logger.Errorf("parsing config %s: %v", s.Path, err)
		return cfg
	}

	cfg.SourceDir = existingDir(doc.SourceDir)
	cfg.DestDir = existingDir(doc.DestDir)
	cfg.AppendTimestamp = doc.AppendTimestamp
	if doc.ExcludedExact != nil {
		cfg.ExcludedExact = *doc.ExcludedExact
	}
	if doc.ExcludedPrefix != nil {
		cfg.ExcludedPrefix = *doc.ExcludedPrefix
	}
	if doc.ExcludedGlob != nil {
		cfg.ExcludedGlob = *doc.ExcludedGlob
	}
	return cfg
}

// Save writes the document atomically with human-readable indentation.
func (s Store) Save(cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return fs.AtomicWriteFile(s.Path, append(data, '\n'), 0o644)
}

func existingDir(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return ""
	}
	return path
}
