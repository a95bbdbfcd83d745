package app

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"procopy/internal/domain"
	apperrors "procopy/internal/errors"
	"procopy/internal/logging"
)

// Planner walks a source tree and produces a copy plan. Validation failures
// are reported before any traversal starts.
type Planner struct {
	FS     FileSystem
	Logger logging.Logger

	// Now is used to stamp the destination folder; defaults to time.Now.
	Now func() time.Time
}

// Build validates the spec and produces a plan. Entry order follows the
// directory walk's discovery order. In Selective mode excluded folders are
// pruned before descending, so nothing below them is ever visited.
func (p *Planner) Build(spec domain.CopySpec) (domain.CopyPlan, error) {
	if p.FS == nil {
		return domain.CopyPlan{}, errors.New("planner requires FS")
	}

	stop := p.Logger.Measure("Building copy plan")
	defer stop()

	info, err := p.FS.Stat(spec.SourceRoot)
	if err != nil || !info.IsDir() {
		return domain.CopyPlan{}, apperrors.New(apperrors.SourceNotFound, "stat", spec.SourceRoot, "source folder does not exist or is not a directory")
	}

	if spec.DestRoot == "" {
		return domain.CopyPlan{}, apperrors.New(apperrors.DestinationUnset, "resolve", "", "destination folder is not set")
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	destRoot, err := ResolveDestination(spec.DestRoot, spec.TimestampSuffix, now())
	if err != nil {
		return domain.CopyPlan{}, err
	}

	if isNestedIn(spec.SourceRoot, destRoot) {
		return domain.CopyPlan{}, apperrors.New(apperrors.DestinationNested, "validate", destRoot, "destination is the source folder or inside it")
	}

	var entries []domain.CopyEntry
	err = p.FS.WalkDir(spec.SourceRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == spec.SourceRoot {
				return nil
			}
			if spec.Mode == domain.Selective && spec.Rules != nil && spec.Rules.Excluded(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(spec.SourceRoot, path)
		if relErr != nil {
			return relErr
		}
		entries = append(entries, domain.CopyEntry{
			Source: path,
			Target: filepath.Join(destRoot, rel),
		})
		return nil
	})
	if err != nil {
		return domain.CopyPlan{}, apperrors.Wrap(apperrors.Traversal, "walk", spec.SourceRoot, err)
	}

	p.Logger.Verbosef("Planned %d files (%s mode) from %s", len(entries), spec.Mode, spec.SourceRoot)

	return domain.CopyPlan{
		SourceRoot: spec.SourceRoot,
		DestRoot:   destRoot,
		Mode:       spec.Mode,
		Entries:    entries,
		Total:      len(entries),
	}, nil
}

// isNestedIn reports whether dest equals source or lies below it. Paths on
// different volumes are never nested.
func isNestedIn(source, dest string) bool {
	src, err := filepath.Abs(source)
	if err != nil {
		return false
	}
	dst, err := filepath.Abs(dest)
	if err != nil {
		return false
	}
	if !strings.EqualFold(filepath.VolumeName(src), filepath.VolumeName(dst)) {
		return false
	}
	rel, err := filepath.Rel(src, dst)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
