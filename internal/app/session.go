package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"procopy/internal/domain"
	"procopy/internal/logging"
)

var (
	// ErrBuildInFlight is returned when a plan build is already running.
	ErrBuildInFlight = errors.New("a plan calculation is already running")
	// ErrCopyInFlight is returned when a copy run is already running.
	ErrCopyInFlight = errors.New("a copy is already running")
)

// Session owns the engine state shared between calculation and copy: the
// current plan and the single-flight guards. The UI layer disables its
// triggers while work is in flight; the session enforces the same rule so a
// race cannot start a second run.
type Session struct {
	FS     FileSystem
	Logger logging.Logger
	Now    func() time.Time

	mu       sync.Mutex
	building bool
	copying  bool
	plan     *domain.CopyPlan
}

// BuildPlan starts a plan calculation on a worker goroutine and returns a
// handle. Any previously built plan is discarded immediately, so a stale plan
// can never be observed while the new one is being computed. On success the
// resulting plan becomes the session's current plan.
func (s *Session) BuildPlan(spec domain.CopySpec) (*Task[domain.CopyPlan], error) {
	s.mu.Lock()
	if s.building {
		s.mu.Unlock()
		return nil, ErrBuildInFlight
	}
	s.building = true
	s.plan = nil
	s.mu.Unlock()

	planner := &Planner{FS: s.FS, Logger: s.Logger, Now: s.Now}
	task := startTask(func() (domain.CopyPlan, error) {
		plan, err := planner.Build(spec)

		s.mu.Lock()
		s.building = false
		if err == nil {
			s.plan = &plan
		}
		s.mu.Unlock()

		return plan, err
	})
	return task, nil
}

// StartCopy executes a plan on a worker goroutine and returns a handle that
// completes with the number of files copied. onProgress may be nil. A failed
// run leaves already copied files in place and clears the current plan so
// the session returns to a re-triable idle state.
func (s *Session) StartCopy(ctx context.Context, plan domain.CopyPlan, onProgress ProgressFunc) (*Task[int], error) {
	s.mu.Lock()
	if s.copying {
		s.mu.Unlock()
		return nil, ErrCopyInFlight
	}
	s.copying = true
	s.mu.Unlock()

	executor := &Executor{FS: s.FS, Logger: s.Logger, OnProgress: onProgress}
	task := startTask(func() (int, error) {
		err := executor.Execute(ctx, plan)

		s.mu.Lock()
		s.copying = false
		if err != nil {
			s.plan = nil
		}
		s.mu.Unlock()

		if err != nil {
			return 0, err
		}
		return plan.Total, nil
	})
	return task, nil
}

// Plan returns the current plan, if one has been built and not invalidated.
func (s *Session) Plan() (domain.CopyPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return domain.CopyPlan{}, false
	}
	return *s.plan, true
}

// Reset discards the current plan. Rule or path edits call this so dependent
// actions stay disabled until a fresh plan exists.
func (s *Session) Reset() {
	s.mu.Lock()
	s.plan = nil
	s.mu.Unlock()
}
