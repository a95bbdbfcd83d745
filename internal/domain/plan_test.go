package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativePaths(t *testing.T) {
	src := filepath.FromSlash("/proj")
	plan := CopyPlan{
		SourceRoot: src,
		Entries: []CopyEntry{
			{Source: filepath.Join(src, "a.txt"), Target: filepath.FromSlash("/backup/a.txt")},
			{Source: filepath.Join(src, "sub", "b.txt"), Target: filepath.FromSlash("/backup/sub/b.txt")},
		},
		Total: 2,
	}

	assert.Equal(t, []string{"a.txt", filepath.Join("sub", "b.txt")}, plan.RelativePaths())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "selective", Selective.String())
	assert.Equal(t, "full", Full.String())
}
