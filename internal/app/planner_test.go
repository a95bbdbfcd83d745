package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"procopy/internal/domain"
	apperrors "procopy/internal/errors"
	infrafs "procopy/internal/infra/fs"
	"procopy/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// sampleTree creates the canonical fixture: two project files plus content
// under .git and node_modules.
func sampleTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "file1.txt"), "one")
	writeFile(t, filepath.Join(src, ".git", "config"), "git")
	writeFile(t, filepath.Join(src, "node_modules", "pkg", "index.js"), "js")
	writeFile(t, filepath.Join(src, "sub", "file2.txt"), "two")
	return src
}

func defaultRules() *rules.Set {
	return rules.New([]string{".git", "node_modules"}, []string{"firebase-export-"}, nil)
}

func buildPlan(t *testing.T, spec domain.CopySpec) domain.CopyPlan {
	t.Helper()
	planner := &Planner{FS: infrafs.OSFS{}}
	plan, err := planner.Build(spec)
	require.NoError(t, err)
	return plan
}

func TestBuildSelectivePrunesExcludedFolders(t *testing.T) {
	src := sampleTree(t)
	dest := t.TempDir()

	plan := buildPlan(t, domain.CopySpec{
		SourceRoot: src,
		DestRoot:   dest,
		Rules:      defaultRules(),
		Mode:       domain.Selective,
	})

	// Discovery order is platform dependent, compare as a set.
	assert.ElementsMatch(t, []string{"file1.txt", filepath.Join("sub", "file2.txt")}, plan.RelativePaths())
	assert.Equal(t, plan.Total, len(plan.Entries))
	assert.Equal(t, dest, plan.DestRoot)
	for _, entry := range plan.Entries {
		rel, err := filepath.Rel(dest, entry.Target)
		require.NoError(t, err)
		assert.False(t, filepath.IsAbs(rel))
	}
}

func TestBuildFullIgnoresExclusions(t *testing.T) {
	src := sampleTree(t)

	plan := buildPlan(t, domain.CopySpec{
		SourceRoot: src,
		DestRoot:   t.TempDir(),
		Rules:      defaultRules(),
		Mode:       domain.Full,
	})

	assert.ElementsMatch(t, []string{
		"file1.txt",
		filepath.Join(".git", "config"),
		filepath.Join("node_modules", "pkg", "index.js"),
		filepath.Join("sub", "file2.txt"),
	}, plan.RelativePaths())
	assert.Equal(t, 4, plan.Total)
}

func TestBuildMatchesFolderNamesCaseInsensitively(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "keep.txt"), "x")
	writeFile(t, filepath.Join(src, "Generated_Export", "data.json"), "x")

	plan := buildPlan(t, domain.CopySpec{
		SourceRoot: src,
		DestRoot:   t.TempDir(),
		Rules:      rules.New([]string{"generated_export"}, nil, nil),
		Mode:       domain.Selective,
	})

	assert.Equal(t, []string{"keep.txt"}, plan.RelativePaths())
}

func TestBuildPrunesPrefixMatchedFolders(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.go"), "x")
	writeFile(t, filepath.Join(src, "firebase-export-20240101", "dump.json"), "x")

	plan := buildPlan(t, domain.CopySpec{
		SourceRoot: src,
		DestRoot:   t.TempDir(),
		Rules:      defaultRules(),
		Mode:       domain.Selective,
	})

	assert.Equal(t, []string{"main.go"}, plan.RelativePaths())
}

func TestBuildIsIdempotent(t *testing.T) {
	src := sampleTree(t)
	spec := domain.CopySpec{
		SourceRoot: src,
		DestRoot:   t.TempDir(),
		Rules:      defaultRules(),
		Mode:       domain.Selective,
	}

	first := buildPlan(t, spec)
	second := buildPlan(t, spec)
	assert.ElementsMatch(t, first.RelativePaths(), second.RelativePaths())
}

func TestBuildFailsWhenSourceMissing(t *testing.T) {
	planner := &Planner{FS: infrafs.OSFS{}}
	_, err := planner.Build(domain.CopySpec{
		SourceRoot: filepath.Join(t.TempDir(), "does-not-exist"),
		DestRoot:   t.TempDir(),
		Rules:      defaultRules(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.SourceNotFound, apperrors.KindOf(err))
}

func TestBuildFailsWhenDestinationUnset(t *testing.T) {
	planner := &Planner{FS: infrafs.OSFS{}}
	_, err := planner.Build(domain.CopySpec{
		SourceRoot: t.TempDir(),
		DestRoot:   "",
		Rules:      defaultRules(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.DestinationUnset, apperrors.KindOf(err))
}

func TestBuildRejectsNestedDestination(t *testing.T) {
	src := t.TempDir()
	planner := &Planner{FS: infrafs.OSFS{}}

	for _, dest := range []string{src, filepath.Join(src, "sub")} {
		_, err := planner.Build(domain.CopySpec{
			SourceRoot: src,
			DestRoot:   dest,
			Rules:      defaultRules(),
		})
		require.Error(t, err, "dest %q", dest)
		assert.Equal(t, apperrors.DestinationNested, apperrors.KindOf(err))
	}

	// A disjoint path is fine.
	_, err := planner.Build(domain.CopySpec{SourceRoot: src, DestRoot: t.TempDir(), Rules: defaultRules()})
	assert.NoError(t, err)
}

func TestBuildAppendsTimestampToDestination(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	dest := filepath.Join(t.TempDir(), "backup")

	planner := &Planner{
		FS:  infrafs.OSFS{},
		Now: func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) },
	}
	plan, err := planner.Build(domain.CopySpec{
		SourceRoot:      src,
		DestRoot:        dest,
		Rules:           defaultRules(),
		TimestampSuffix: true,
	})
	require.NoError(t, err)
	assert.Equal(t, dest+"_20240102_030405", plan.DestRoot)
	assert.Equal(t, filepath.Join(plan.DestRoot, "a.txt"), plan.Entries[0].Target)
}

func TestBuildWrapsTraversalFailures(t *testing.T) {
	src := filepath.FromSlash("/src")
	mock := &fakeFS{
		isDir:   map[string]bool{src: true},
		walkErr: fs.ErrPermission,
	}

	planner := &Planner{FS: mock}
	_, err := planner.Build(domain.CopySpec{
		SourceRoot: src,
		DestRoot:   filepath.FromSlash("/dest"),
		Rules:      defaultRules(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Traversal, apperrors.KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrPermission))
}
