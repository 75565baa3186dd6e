package projection

import (
	"sync"
	"sync/atomic"
	"time"

	"taskflow/internal/core/domain"
)

const DefaultPatchTTL = 30 * time.Second

type patchKind int

const (
	patchUpsert patchKind = iota
	patchDelete
)

type patch struct {
	kind       patchKind
	task       domain.Task
	recordedAt time.Time
}

// Store is the in-process mirror of the remote task collection. The
// authoritative set is replaced only by the sync engine; commands may lay
// pending patches on top of it until the next batch reconciles them.
type Store struct {
	mu            sync.Mutex
	authoritative *Snapshot
	pending       map[string]patch
	version       uint64

	visible atomic.Pointer[Snapshot]

	patchTTL time.Duration
	now      func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithPatchTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.patchTTL = ttl
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		authoritative: emptySnapshot,
		pending:       map[string]patch{},
		patchTTL:      DefaultPatchTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.visible.Store(emptySnapshot)
	return s
}

// Snapshot returns the current visible state: authoritative tasks with
// pending patches applied.
func (s *Store) Snapshot() *Snapshot {
	return s.visible.Load()
}

// Authoritative returns the last batch applied by the sync engine, without
// pending patches.
func (s *Store) Authoritative() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authoritative
}

func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Replace swaps in a new authoritative task set, reconciles pending patches
// against it and publishes the result atomically.
func (s *Store) Replace(tasks []domain.Task) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.version++
	s.authoritative = newSnapshot(orderTasks(tasks), s.version, now)
	s.reconcileLocked(now)
	return s.publishLocked(now)
}

// PatchUpsert overlays task until a batch carries the same or a newer version of it.
func (s *Store) PatchUpsert(task domain.Task) {
	if task.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.version++
	s.pending[task.ID] = patch{kind: patchUpsert, task: task, recordedAt: now}
	s.publishLocked(now)
}

// PatchDelete hides id until a batch no longer contains it.
func (s *Store) PatchDelete(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.version++
	s.pending[id] = patch{kind: patchDelete, task: domain.Task{ID: id}, recordedAt: now}
	s.publishLocked(now)
}

// Clear drops every task and patch.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.version++
	s.authoritative = newSnapshot(nil, s.version, now)
	s.pending = map[string]patch{}
	s.publishLocked(now)
}

func (s *Store) reconcileLocked(now time.Time) {
	for id, p := range s.pending {
		if now.Sub(p.recordedAt) > s.patchTTL {
			delete(s.pending, id)
			continue
		}

		current, exists := s.authoritative.Get(id)
		switch p.kind {
		case patchUpsert:
			// Stores keep microseconds; a nanosecond patch would never match.
			if exists && !current.UpdatedAt.Before(p.task.UpdatedAt.Truncate(time.Microsecond)) {
				delete(s.pending, id)
			}
		case patchDelete:
			if !exists {
				delete(s.pending, id)
			}
		}
	}
}

func (s *Store) publishLocked(now time.Time) *Snapshot {
	var snap *Snapshot
	if len(s.pending) == 0 {
		snap = s.authoritative
	} else {
		tasks := make([]domain.Task, 0, s.authoritative.Len()+len(s.pending))
		s.authoritative.Each(func(task domain.Task) bool {
			if _, patched := s.pending[task.ID]; !patched {
				tasks = append(tasks, task)
			}
			return true
		})
		for _, p := range s.pending {
			if p.kind == patchUpsert {
				tasks = append(tasks, p.task)
			}
		}
		snap = newSnapshot(orderTasks(tasks), s.version, now)
	}
	s.visible.Store(snap)
	return snap
}
