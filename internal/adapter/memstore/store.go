// Package memstore is an in-process TaskStore. It follows the remote store
// contract (store-assigned ids, ordered queries, live subscriptions) and is
// used for tests and single-process runs.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"taskflow/internal/adapter/livequery"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

type Store struct {
	mu          sync.Mutex
	records     map[string]domain.TaskRecord
	queries     map[*livequery.Query]struct{}
	unavailable error
	newID       func() string
}

func New() *Store {
	return &Store{
		records: map[string]domain.TaskRecord{},
		queries: map[*livequery.Query]struct{}{},
		newID:   uuid.NewString,
	}
}

// Seed inserts raw records as they are, malformed ones included, and
// notifies subscribers.
func (s *Store) Seed(records ...domain.TaskRecord) {
	s.mu.Lock()
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	s.mu.Unlock()
	s.notify()
}

// SetUnavailable makes every call fail with err until called with nil.
func (s *Store) SetUnavailable(err error) {
	s.mu.Lock()
	s.unavailable = err
	s.mu.Unlock()
}

// Interrupt delivers a transport error to live subscriptions.
func (s *Store) Interrupt(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for q := range s.queries {
		q.Fail(domain.Unavailable("subscription", err))
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func (s *Store) List(ctx context.Context, filter ports.TaskFilter) ([]domain.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return nil, domain.Unavailable("list tasks", s.unavailable)
	}

	out := make([]domain.TaskRecord, 0, len(s.records))
	for _, rec := range s.records {
		if filter.Matches(rec.AssignedTo) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return domain.TaskRecord{}, domain.Unavailable("get task", s.unavailable)
	}
	rec, ok := s.records[id]
	if !ok {
		return domain.TaskRecord{}, domain.ErrTaskNotFound
	}
	return rec, nil
}

func (s *Store) Subscribe(ctx context.Context, filter ports.TaskFilter) (ports.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return nil, domain.Unavailable("subscribe", s.unavailable)
	}

	// The loader and the stop hook both take s.mu, so neither runs before
	// q is registered.
	var q *livequery.Query
	q = livequery.Start(ctx, func(ctx context.Context) ([]domain.TaskRecord, error) {
		return s.List(ctx, filter)
	}, livequery.OnStop(func() {
		s.mu.Lock()
		delete(s.queries, q)
		s.mu.Unlock()
	}))
	s.queries[q] = struct{}{}
	return q, nil
}

func (s *Store) Create(ctx context.Context, task domain.Task) (string, error) {
	s.mu.Lock()
	if s.unavailable != nil {
		err := s.unavailable
		s.mu.Unlock()
		return "", domain.Unavailable("create task", err)
	}
	task.ID = s.newID()
	s.records[task.ID] = domain.EncodeTask(task)
	s.mu.Unlock()

	s.notify()
	return task.ID, nil
}

func (s *Store) Update(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	if s.unavailable != nil {
		err := s.unavailable
		s.mu.Unlock()
		return domain.Unavailable("update task", err)
	}
	if _, ok := s.records[task.ID]; !ok {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	s.records[task.ID] = domain.EncodeTask(task)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.unavailable != nil {
		err := s.unavailable
		s.mu.Unlock()
		return domain.Unavailable("delete task", err)
	}
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	delete(s.records, id)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for q := range s.queries {
		q.Trigger()
	}
}

var _ ports.TaskStore = (*Store)(nil)
