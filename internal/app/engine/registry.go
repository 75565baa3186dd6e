package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/app/projection"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

var ErrRegistryClosed = errors.New("session registry closed")

const DefaultIdleTimeout = 15 * time.Minute

type sessionKey struct {
	id   string
	role domain.Role
}

type session struct {
	engine   *Engine
	lastUsed time.Time
	holders  int
}

// Registry keeps one Engine per principal. Sessions start on first use and
// are stopped once idle for longer than the idle timeout, unless a watcher
// still holds them.
type Registry struct {
	store       ports.TaskStore
	logger      *zap.Logger
	idleTimeout time.Duration
	patchTTL    time.Duration
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[sessionKey]*session
	closed   bool
}

type RegistryOption func(*Registry)

func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

func WithPatchTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.patchTTL = d }
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(store ports.TaskStore, logger *zap.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		store:       store,
		logger:      logger,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		sessions:    map[sessionKey]*session{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the principal's engine, starting it if needed, once its
// projection has received a first batch.
func (r *Registry) Acquire(ctx context.Context, principal domain.Principal) (*Engine, error) {
	e, release, err := r.acquire(ctx, principal, 0)
	if err != nil {
		return nil, err
	}
	release()
	return e, nil
}

// Hold acquires the principal's engine and pins it against reaping until
// release is called.
func (r *Registry) Hold(ctx context.Context, principal domain.Principal) (*Engine, func(), error) {
	return r.acquire(ctx, principal, 1)
}

// acquire retries once when the session it found was stopped by a
// concurrent Reap before becoming ready.
func (r *Registry) acquire(ctx context.Context, principal domain.Principal, hold int) (*Engine, func(), error) {
	for attempt := 0; ; attempt++ {
		s, err := r.session(principal, hold)
		if err != nil {
			return nil, nil, err
		}

		var once sync.Once
		release := func() {
			if hold == 0 {
				return
			}
			once.Do(func() {
				r.mu.Lock()
				s.holders -= hold
				s.lastUsed = r.now()
				r.mu.Unlock()
			})
		}

		err = s.engine.WaitReady(ctx)
		if err == nil {
			return s.engine, release, nil
		}
		release()
		if !errors.Is(err, ErrNotListening) {
			return nil, nil, err
		}
		if attempt > 0 {
			return nil, nil, domain.Unavailable("acquire session", err)
		}
		r.logger.Debug("session stopped while acquiring, retrying", zap.String("principal", principal.ID))
	}
}

func (r *Registry) session(principal domain.Principal, hold int) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	key := sessionKey{id: principal.ID, role: principal.Role}
	s, ok := r.sessions[key]
	if ok && !s.engine.IsListening() {
		delete(r.sessions, key)
		ok = false
	}
	if !ok {
		e := New(r.store, r.logger.With(zap.String("principal", principal.ID)),
			WithClock(r.now),
			WithProjection(projection.NewStore(projection.WithClock(r.now), projection.WithPatchTTL(r.patchTTL))),
		)
		if err := e.StartListening(r.ctx, principal); err != nil {
			return nil, err
		}
		s = &session{engine: e}
		r.sessions[key] = s
		r.logger.Debug("session started", zap.String("principal", principal.ID), zap.Int("sessions", len(r.sessions)))
	}
	s.lastUsed = r.now()
	s.holders += hold
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// PatchUpsert forwards an optimistic patch to every live session; each
// engine applies it only if the task is in its scope.
func (r *Registry) PatchUpsert(task domain.Task) {
	for _, e := range r.engines() {
		e.PatchUpsert(task)
	}
}

func (r *Registry) PatchDelete(id string) {
	for _, e := range r.engines() {
		e.PatchDelete(id)
	}
}

func (r *Registry) engines() []*Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Engine, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.engine)
	}
	return out
}

// Reap stops sessions idle for longer than the idle timeout and returns how
// many were stopped.
func (r *Registry) Reap() int {
	now := r.now()
	var idle []*Engine

	r.mu.Lock()
	for key, s := range r.sessions {
		if s.holders > 0 || now.Sub(s.lastUsed) < r.idleTimeout {
			continue
		}
		idle = append(idle, s.engine)
		delete(r.sessions, key)
	}
	r.mu.Unlock()

	for _, e := range idle {
		e.StopListening()
	}
	if len(idle) > 0 {
		r.logger.Info("reaped idle sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run reaps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap()
		}
	}
}

// Close stops every session. Later calls to Acquire fail.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	sessions := r.sessions
	r.sessions = map[sessionKey]*session{}
	r.mu.Unlock()

	for _, s := range sessions {
		s.engine.StopListening()
	}
	r.cancel()
}

var _ ports.ProjectionPatcher = (*Registry)(nil)
