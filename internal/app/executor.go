package app

import (
	"context"
	"errors"
	"path/filepath"

	"procopy/internal/domain"
	apperrors "procopy/internal/errors"
	"procopy/internal/logging"
)

// Executor copies the files of a plan in order, creating destination
// directories as needed and overwriting existing files. The first failure
// aborts the run; already copied files stay in place.
type Executor struct {
	FS         FileSystem
	Logger     logging.Logger
	OnProgress ProgressFunc
}

// Execute runs the plan. Progress is reported at most about a hundred times
// per run plus once for the final file. The returned error for a mid-run
// failure is a *errors.CopyError carrying the failing pair and the number of
// files copied before it.
func (e *Executor) Execute(ctx context.Context, plan domain.CopyPlan) error {
	if e.FS == nil {
		return errors.New("executor requires FS")
	}

	stop := e.Logger.Measure("Copying files")
	defer stop()

	// Roughly 100 notifications per run, always including the last file.
	interval := plan.Total / 100
	if interval < 1 {
		interval = 1
	}

	copied := 0
	for i, entry := range plan.Entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.copyEntry(entry); err != nil {
			return &apperrors.CopyError{
				Source: entry.Source,
				Target: entry.Target,
				Copied: copied,
				Total:  plan.Total,
				Err:    err,
			}
		}
		copied++

		if e.OnProgress != nil && ((i+1)%interval == 0 || i+1 == plan.Total) {
			e.OnProgress(copied, plan.Total)
		}
	}

	e.Logger.Verbosef("Copied %d files to %s", copied, plan.DestRoot)
	return nil
}

func (e *Executor) copyEntry(entry domain.CopyEntry) error {
	if err := e.FS.MkdirAll(filepath.Dir(entry.Target), 0o755); err != nil {
		return err
	}
	return e.FS.CopyFile(entry.Source, entry.Target)
}
