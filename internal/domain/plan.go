package domain

import (
	"path/filepath"

	"procopy/internal/rules"
)

// Mode selects how the planner treats exclusion rules.
type Mode int

const (
	// Selective prunes excluded folders before descending into them.
	Selective Mode = iota
	// Full ignores all exclusion rules.
	Full
)

func (m Mode) String() string {
	if m == Full {
		return "full"
	}
	return "selective"
}

// CopySpec describes a single calculation request. It is immutable once a
// plan has been built from it.
type CopySpec struct {
	SourceRoot      string
	DestRoot        string
	Rules           *rules.Set
	Mode            Mode
	TimestampSuffix bool
}

// CopyEntry is one planned file copy.
type CopyEntry struct {
	Source string
	Target string
}

// CopyPlan is the ordered result of one calculation. Entries follow
// directory-walk discovery order; Total always equals len(Entries).
type CopyPlan struct {
	SourceRoot string
	DestRoot   string
	Mode       Mode
	Entries    []CopyEntry
	Total      int
}

// RelativePaths returns each entry's source path relative to the plan's
// source root, in plan order. Used for previews.
func (p CopyPlan) RelativePaths() []string {
	paths := make([]string, 0, len(p.Entries))
	for _, entry := range p.Entries {
		rel, err := filepath.Rel(p.SourceRoot, entry.Source)
		if err != nil {
			rel = entry.Source
		}
		paths = append(paths, rel)
	}
	return paths
}

// Progress is a point-in-time snapshot of a running copy.
type Progress struct {
	Copied int
	Total  int
}
