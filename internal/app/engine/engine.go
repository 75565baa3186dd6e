// Package engine runs the synchronization loop between a task store
// subscription and a projection, and keeps one such loop per principal.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/app/projection"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

var ErrNotListening = errors.New("engine is not listening")

// Stats are cumulative over the engine's lifetime.
type Stats struct {
	Batches  uint64
	Dropped  uint64
	Filtered uint64
	Errors   uint64
}

// Engine keeps one principal's projection in step with the task store. It
// owns at most one subscription at a time and is the only writer of the
// authoritative projection.
type Engine struct {
	store      ports.TaskStore
	projection *projection.Store
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.Mutex
	principal domain.Principal
	filter    ports.TaskFilter
	listening bool
	started   bool
	sub       ports.Subscription
	loopDone  chan struct{}
	ready     chan struct{}

	healthMu sync.RWMutex
	health   ports.FeedHealth
	synced   bool

	listenersMu sync.Mutex
	listeners   map[*Listener]struct{}

	batches  atomic.Uint64
	dropped  atomic.Uint64
	filtered atomic.Uint64
	errs     atomic.Uint64
}

type Option func(*Engine)

func WithProjection(store *projection.Store) Option {
	return func(e *Engine) {
		if store != nil {
			e.projection = store
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(store ports.TaskStore, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		store:     store,
		logger:    logger,
		now:       time.Now,
		listeners: map[*Listener]struct{}{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.projection == nil {
		e.projection = projection.NewStore(projection.WithClock(e.now))
	}
	return e
}

// StartListening subscribes to the tasks visible to principal and returns
// once the subscription is registered; batches are applied in the
// background until StopListening is called or ctx ends. A running
// subscription is cancelled first.
func (e *Engine) StartListening(ctx context.Context, principal domain.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	if e.started && (e.principal.ID != principal.ID || e.principal.Role != principal.Role) {
		e.projection.Clear()
		e.resetHealth()
	}
	e.principal = principal
	e.filter = ports.FilterFor(principal)
	e.started = true

	sub, err := e.store.Subscribe(ctx, e.filter)
	if err != nil {
		return domain.Unavailable("subscribe", err)
	}

	e.sub = sub
	e.listening = true
	e.loopDone = make(chan struct{})
	e.ready = make(chan struct{})
	go e.run(sub, e.filter, e.loopDone, e.ready)

	e.logger.Info("listening for task changes",
		zap.String("principal", principal.ID),
		zap.String("role", string(principal.Role)),
	)
	return nil
}

// StopListening cancels the subscription and waits for the apply loop to
// exit. Batches not yet applied are dropped. Safe to call repeatedly.
func (e *Engine) StopListening() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if !e.listening {
		return
	}
	e.sub.Cancel()
	<-e.loopDone
	e.sub = nil
	e.listening = false
	e.logger.Debug("stopped listening for task changes", zap.String("principal", e.principal.ID))
}

func (e *Engine) IsListening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listening
}

func (e *Engine) Principal() (domain.Principal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.principal, e.started
}

// WaitReady blocks until the current subscription delivered its first batch,
// whether tasks or an error. It returns ErrNotListening if the engine is
// stopped before that.
func (e *Engine) WaitReady(ctx context.Context) error {
	e.mu.Lock()
	if !e.listening {
		e.mu.Unlock()
		return ErrNotListening
	}
	ready, done := e.ready, e.loopDone
	e.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-done:
		select {
		case <-ready:
			return nil
		default:
			return ErrNotListening
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) Snapshot() *projection.Snapshot {
	return e.projection.Snapshot()
}

func (e *Engine) Projection() *projection.Store {
	return e.projection
}

func (e *Engine) Health() ports.FeedHealth {
	e.healthMu.RLock()
	defer e.healthMu.RUnlock()
	return e.health
}

// Synced reports whether at least one batch of tasks has been applied.
func (e *Engine) Synced() bool {
	e.healthMu.RLock()
	defer e.healthMu.RUnlock()
	return e.synced
}

func (e *Engine) Stats() Stats {
	return Stats{
		Batches:  e.batches.Load(),
		Dropped:  e.dropped.Load(),
		Filtered: e.filtered.Load(),
		Errors:   e.errs.Load(),
	}
}

// PatchUpsert lays an optimistic version of task over the projection. A
// task that no longer belongs to this principal's scope is hidden instead.
func (e *Engine) PatchUpsert(task domain.Task) {
	e.mu.Lock()
	filter, started := e.filter, e.started
	e.mu.Unlock()
	if !started {
		return
	}

	if filter.Matches(task.AssignedTo) {
		e.projection.PatchUpsert(task)
	} else if _, ok := e.projection.Snapshot().Get(task.ID); ok {
		e.projection.PatchDelete(task.ID)
	} else {
		return
	}
	e.notify()
}

func (e *Engine) PatchDelete(id string) {
	if _, ok := e.projection.Snapshot().Get(id); !ok {
		return
	}
	e.projection.PatchDelete(id)
	e.notify()
}

func (e *Engine) run(sub ports.Subscription, filter ports.TaskFilter, done, ready chan struct{}) {
	defer close(done)

	first := true
	for batch := range sub.Batches() {
		e.apply(batch, filter)
		if first {
			close(ready)
			first = false
		}
	}
}

func (e *Engine) apply(batch ports.TaskBatch, filter ports.TaskFilter) {
	if batch.Err != nil {
		e.errs.Add(1)
		e.markDegraded(batch.Err)
		e.notify()
		return
	}

	tasks := make([]domain.Task, 0, len(batch.Records))
	for _, rec := range batch.Records {
		task, err := domain.DecodeTask(rec)
		if err != nil {
			e.dropped.Add(1)
			fields := []zap.Field{zap.String("task_id", rec.ID), zap.Error(err)}
			var decodeErr *domain.DecodeError
			if errors.As(err, &decodeErr) {
				fields = append(fields, zap.String("field", decodeErr.Field))
			}
			e.logger.Warn("dropping malformed task record", fields...)
			continue
		}
		if !filter.Matches(task.AssignedTo) {
			e.filtered.Add(1)
			e.logger.Debug("dropping task outside subscription scope", zap.String("task_id", task.ID))
			continue
		}
		tasks = append(tasks, task)
	}

	e.projection.Replace(tasks)
	e.batches.Add(1)
	e.markHealthy()
	e.notify()
}

func (e *Engine) markDegraded(err error) {
	e.healthMu.Lock()
	defer e.healthMu.Unlock()

	if !e.health.Degraded {
		e.logger.Warn("task feed degraded", zap.Error(err))
		e.health.Since = e.now()
	}
	e.health.Degraded = true
	e.health.LastError = err.Error()
}

func (e *Engine) markHealthy() {
	e.healthMu.Lock()
	defer e.healthMu.Unlock()

	e.synced = true
	if !e.health.Degraded {
		return
	}
	e.logger.Info("task feed recovered", zap.Duration("degraded_for", e.now().Sub(e.health.Since)))
	e.health = ports.FeedHealth{Since: e.now()}
}

func (e *Engine) resetHealth() {
	e.healthMu.Lock()
	defer e.healthMu.Unlock()
	e.health = ports.FeedHealth{}
	e.synced = false
}

var _ ports.ProjectionPatcher = (*Engine)(nil)
