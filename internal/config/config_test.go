package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeAt(t *testing.T) Store {
	t.Helper()
	return Store{Path: filepath.Join(t.TempDir(), "config.json")}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg := storeAt(t).Load()

	assert.Equal(t, []string{".git", "node_modules"}, cfg.ExcludedExact)
	assert.Equal(t, []string{"firebase-export-"}, cfg.ExcludedPrefix)
	assert.Empty(t, cfg.SourceDir)
	assert.Empty(t, cfg.DestDir)
	assert.False(t, cfg.AppendTimestamp)
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	store := storeAt(t)
	require.NoError(t, os.WriteFile(store.Path, []byte("{not json"), 0o644))

	assert.Equal(t, Default(), store.Load())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := storeAt(t)
	src := t.TempDir()
	dest := t.TempDir()

	cfg := Config{
		SourceDir:       src,
		DestDir:         dest,
		ExcludedExact:   []string{".git", "dist"},
		ExcludedPrefix:  []string{"tmp-"},
		ExcludedGlob:    []string{"*.bak"},
		AppendTimestamp: true,
	}
	require.NoError(t, store.Save(cfg))

	assert.Equal(t, cfg, store.Load())
}

func TestLoadKeepsExplicitlyEmptyRuleLists(t *testing.T) {
	store := storeAt(t)
	doc := `{"source_dir": "", "dest_dir": "", "excluded_exact": [], "excluded_prefix": [], "append_timestamp": false}`
	require.NoError(t, os.WriteFile(store.Path, []byte(doc), 0o644))

	cfg := store.Load()
	assert.Empty(t, cfg.ExcludedExact)
	assert.Empty(t, cfg.ExcludedPrefix)
}

func TestLoadAppliesDefaultsForAbsentRuleKeys(t *testing.T) {
	store := storeAt(t)
	doc := `{"source_dir": "", "dest_dir": ""}`
	require.NoError(t, os.WriteFile(store.Path, []byte(doc), 0o644))

	cfg := store.Load()
	assert.Equal(t, DefaultExcludedExact, cfg.ExcludedExact)
	assert.Equal(t, DefaultExcludedPrefix, cfg.ExcludedPrefix)
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	store := storeAt(t)
	doc := `{"source_dir": "", "dest_dir": "", "future_flag": true, "append_timestamp": true}`
	require.NoError(t, os.WriteFile(store.Path, []byte(doc), 0o644))

	cfg := store.Load()
	assert.True(t, cfg.AppendTimestamp)
}

func TestLoadDropsPathsThatNoLongerExist(t *testing.T) {
	store := storeAt(t)
	existing := t.TempDir()
	gone := filepath.Join(t.TempDir(), "removed")

	require.NoError(t, store.Save(Config{SourceDir: existing, DestDir: gone}))

	cfg := store.Load()
	assert.Equal(t, existing, cfg.SourceDir)
	assert.Empty(t, cfg.DestDir)
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "nested", "dir", "config.json")}
	require.NoError(t, store.Save(Default()))

	_, err := os.Stat(store.Path)
	assert.NoError(t, err)
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	store := storeAt(t)
	require.NoError(t, store.Save(Default()))

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"source_dir\"")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "excluded_exact")
	assert.Contains(t, doc, "append_timestamp")
}
