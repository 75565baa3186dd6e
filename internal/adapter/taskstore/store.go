// Package taskstore is the production task store: one-shot queries and
// writes go to the SQL repository, live subscriptions reload whenever the
// change feed reports a write in their scope.
package taskstore

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"taskflow/internal/adapter/livequery"
	"taskflow/internal/adapter/redisstore"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

type repository interface {
	List(ctx context.Context, filter ports.TaskFilter) ([]domain.TaskRecord, error)
	Get(ctx context.Context, id string) (domain.TaskRecord, error)
	Create(ctx context.Context, task domain.Task) (string, error)
	Update(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
}

type changeFeed interface {
	Publish(ctx context.Context, change redisstore.Change) error
	Listen(ctx context.Context, handle func(redisstore.Change), fail func(error)) error
}

type Store struct {
	repo   repository
	feed   changeFeed
	logger *zap.Logger

	refreshLimit rate.Limit

	mu      sync.Mutex
	queries map[*livequery.Query]ports.TaskFilter
}

type Option func(*Store)

// WithMaxRefreshRate caps reloads per subscription. Zero or less disables
// the cap.
func WithMaxRefreshRate(perSecond float64) Option {
	return func(s *Store) {
		if perSecond > 0 {
			s.refreshLimit = rate.Limit(perSecond)
		}
	}
}

func New(repo repository, feed changeFeed, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:         repo,
		feed:         feed,
		logger:       logger,
		refreshLimit: rate.Inf,
		queries:      map[*livequery.Query]ports.TaskFilter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run relays the change feed to live subscriptions until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	return s.feed.Listen(ctx, s.dispatch, s.fail)
}

func (s *Store) List(ctx context.Context, filter ports.TaskFilter) ([]domain.TaskRecord, error) {
	return s.repo.List(ctx, filter)
}

func (s *Store) Get(ctx context.Context, id string) (domain.TaskRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *Store) Subscribe(ctx context.Context, filter ports.TaskFilter) (ports.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var q *livequery.Query
	q = livequery.Start(ctx, func(ctx context.Context) ([]domain.TaskRecord, error) {
		return s.repo.List(ctx, filter)
	},
		livequery.WithLimiter(rate.NewLimiter(s.refreshLimit, 1)),
		livequery.OnStop(func() {
			s.mu.Lock()
			delete(s.queries, q)
			s.mu.Unlock()
		}),
	)
	s.queries[q] = filter
	return q, nil
}

func (s *Store) Create(ctx context.Context, task domain.Task) (string, error) {
	id, err := s.repo.Create(ctx, task)
	if err != nil {
		return "", err
	}
	s.announce(ctx, redisstore.Change{Kind: redisstore.ChangeUpsert, TaskID: id, AssignedTo: task.AssignedTo})
	return id, nil
}

func (s *Store) Update(ctx context.Context, task domain.Task) error {
	previous, err := s.repo.Get(ctx, task.ID)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return err
	}
	s.announce(ctx, redisstore.Change{
		Kind:             redisstore.ChangeUpsert,
		TaskID:           task.ID,
		AssignedTo:       task.AssignedTo,
		PreviousAssignee: previous.AssignedTo,
	})
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	previous, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.announce(ctx, redisstore.Change{Kind: redisstore.ChangeDelete, TaskID: id, AssignedTo: previous.AssignedTo})
	return nil
}

// announce publishes a committed write. If the feed is down the write still
// stands; local subscriptions are refreshed directly instead.
func (s *Store) announce(ctx context.Context, change redisstore.Change) {
	if err := s.feed.Publish(ctx, change); err != nil {
		s.logger.Warn("could not publish task change", zap.String("task_id", change.TaskID), zap.Error(err))
		s.dispatch(change)
	}
}

func (s *Store) dispatch(change redisstore.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for q, filter := range s.queries {
		if change.Affects(filter.AssignedTo) {
			q.Trigger()
		}
	}
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for q := range s.queries {
		q.Fail(err)
	}
}

var _ ports.TaskStore = (*Store)(nil)
