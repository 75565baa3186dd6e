package service

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/app/engine"
	"taskflow/internal/app/projection"
	"taskflow/internal/app/views"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

// Sessions hands out the principal's running sync engine.
type Sessions interface {
	Acquire(ctx context.Context, principal domain.Principal) (*engine.Engine, error)
	Hold(ctx context.Context, principal domain.Principal) (*engine.Engine, func(), error)
}

// ViewService answers reads from the caller's projection. Views are
// recomputed against the clock on every call.
type ViewService struct {
	sessions  Sessions
	evaluator views.Evaluator
	now       func() time.Time
}

func NewViewService(sessions Sessions, thresholds domain.SLAThresholds, now func() time.Time) *ViewService {
	if now == nil {
		now = time.Now
	}
	return &ViewService{
		sessions:  sessions,
		evaluator: views.NewEvaluator(thresholds),
		now:       now,
	}
}

func (s *ViewService) snapshot(ctx context.Context, principal domain.Principal) (*projection.Snapshot, error) {
	e, err := s.sessions.Acquire(ctx, principal)
	if err != nil {
		return nil, err
	}
	// A session whose only batch so far was an error has nothing to show.
	if !e.Synced() && e.Health().Degraded {
		return nil, &domain.StoreError{Op: "initial sync", Err: errors.New(e.Health().LastError)}
	}
	return e.Snapshot(), nil
}

func (s *ViewService) ListTasks(ctx context.Context, principal domain.Principal, status *domain.TaskStatus) ([]domain.Task, error) {
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return views.All(snap), nil
	}
	return views.ByStatus(snap, *status), nil
}

func (s *ViewService) GetTask(ctx context.Context, principal domain.Principal, id string) (domain.Task, error) {
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := snap.Get(id)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *ViewService) UpcomingSLA(ctx context.Context, principal domain.Principal) ([]domain.Task, error) {
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.evaluator.UpcomingSLA(snap, s.now()), nil
}

func (s *ViewService) AtRisk(ctx context.Context, principal domain.Principal) ([]domain.Task, error) {
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.evaluator.AtRisk(snap, s.now()), nil
}

func (s *ViewService) Recent(ctx context.Context, principal domain.Principal) ([]domain.Task, error) {
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return nil, err
	}
	return views.Recent(snap), nil
}

func (s *ViewService) ByAssignee(ctx context.Context, principal domain.Principal, userID string) ([]domain.Task, error) {
	if !principal.IsAdmin() && userID != principal.ID {
		return nil, domain.ErrForbidden
	}
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return nil, err
	}
	return views.ByAssignee(snap, userID), nil
}

func (s *ViewService) Counts(ctx context.Context, principal domain.Principal) (ports.TaskCounts, error) {
	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return ports.TaskCounts{}, err
	}
	return s.evaluator.Counts(snap, s.now()), nil
}

// State reports the projection version and feed health even while the feed
// is degraded.
func (s *ViewService) State(ctx context.Context, principal domain.Principal) (ports.SessionState, error) {
	e, err := s.sessions.Acquire(ctx, principal)
	if err != nil {
		return ports.SessionState{}, err
	}
	snap := e.Snapshot()
	return ports.SessionState{
		Version:   snap.Version(),
		AppliedAt: snap.AppliedAt(),
		Health:    e.Health(),
		Counts:    s.evaluator.Counts(snap, s.now()),
	}, nil
}

// Watch signals on every projection change of the principal's session until
// stop is called. The session is kept alive meanwhile.
func (s *ViewService) Watch(ctx context.Context, principal domain.Principal) (<-chan struct{}, func(), error) {
	e, release, err := s.sessions.Hold(ctx, principal)
	if err != nil {
		return nil, nil, err
	}
	listener := e.Subscribe()
	stop := func() {
		listener.Close()
		release()
	}
	return listener.C, stop, nil
}

func (s *ViewService) SLAStatus(task domain.Task) domain.SLAStatus {
	return s.evaluator.Classify(task, s.now())
}

func (s *ViewService) Now() time.Time {
	return s.now()
}

var _ ports.ViewService = (*ViewService)(nil)
