// Package livequery turns "something changed" signals into ordered task
// batches. Signals are coalesced: a burst of changes while a batch is being
// loaded or delivered produces a single reload.
package livequery

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const (
	defaultMinRetry = 250 * time.Millisecond
	defaultMaxRetry = 30 * time.Second
)

// Loader runs the subscribed query and returns its full result set.
type Loader func(ctx context.Context) ([]domain.TaskRecord, error)

type Query struct {
	load     Loader
	limiter  *rate.Limiter
	minRetry time.Duration
	maxRetry time.Duration

	batches chan ports.TaskBatch
	trigger chan struct{}
	failure chan error

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	onStop func()
}

type Option func(*Query)

// WithLimiter caps how often the query is reloaded.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(q *Query) { q.limiter = limiter }
}

// WithRetryBackoff sets the delay before a failed load is retried. The delay
// doubles after each consecutive failure up to maxDelay.
func WithRetryBackoff(minDelay, maxDelay time.Duration) Option {
	return func(q *Query) {
		q.minRetry = minDelay
		q.maxRetry = maxDelay
	}
}

// OnStop registers a hook run once after the loop exits.
func OnStop(fn func()) Option {
	return func(q *Query) { q.onStop = fn }
}

// Start loads and emits the initial batch, then reloads on every Trigger
// until ctx is done or Cancel is called. A failed load is retried with
// backoff until one succeeds.
func Start(ctx context.Context, load Loader, opts ...Option) *Query {
	ctx, cancel := context.WithCancel(ctx)
	q := &Query{
		load:     load,
		minRetry: defaultMinRetry,
		maxRetry: defaultMaxRetry,
		batches:  make(chan ports.TaskBatch),
		trigger:  make(chan struct{}, 1),
		failure:  make(chan error, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.maxRetry < q.minRetry {
		q.maxRetry = q.minRetry
	}
	go q.run()
	return q
}

func (q *Query) Batches() <-chan ports.TaskBatch {
	return q.batches
}

// Trigger asks for a reload. It never blocks.
func (q *Query) Trigger() {
	select {
	case q.trigger <- struct{}{}:
	default:
	}
}

// Fail reports a transport error to the consumer without ending the query.
// If an error is already waiting, the new one is dropped.
func (q *Query) Fail(err error) {
	if err == nil {
		return
	}
	select {
	case q.failure <- err:
	default:
	}
}

// Cancel stops the query and waits for its loop to exit. Undelivered
// batches are dropped. Safe to call more than once.
func (q *Query) Cancel() {
	q.cancel()
	<-q.done
}

func (q *Query) Done() <-chan struct{} {
	return q.done
}

func (q *Query) Context() context.Context {
	return q.ctx
}

func (q *Query) run() {
	defer func() {
		close(q.batches)
		if q.onStop != nil {
			q.onStop()
		}
		close(q.done)
	}()

	retry := time.NewTimer(0)
	if !retry.Stop() {
		<-retry.C
	}
	defer retry.Stop()
	delay := q.minRetry

	// reload, then arm or disarm the retry timer.
	step := func() bool {
		ok, failed := q.reload()
		if !ok {
			return false
		}
		if !retry.Stop() {
			select {
			case <-retry.C:
			default:
			}
		}
		if failed {
			retry.Reset(delay)
			delay = min(delay*2, q.maxRetry)
		} else {
			delay = q.minRetry
		}
		return true
	}

	if !step() {
		return
	}
	for {
		select {
		case <-q.ctx.Done():
			return
		case err := <-q.failure:
			if !q.send(ports.TaskBatch{Err: err}) {
				return
			}
		case <-q.trigger:
			if !step() {
				return
			}
		case <-retry.C:
			if !step() {
				return
			}
		}
	}
}

// reload reports ok=false once the query is stopping, and failed when the
// load returned an error.
func (q *Query) reload() (ok, failed bool) {
	if q.limiter != nil {
		if err := q.limiter.Wait(q.ctx); err != nil {
			return false, false
		}
	}
	records, err := q.load(q.ctx)
	if q.ctx.Err() != nil {
		return false, false
	}
	if err != nil {
		return q.send(ports.TaskBatch{Err: domain.Unavailable("reload subscription", err)}), true
	}
	return q.send(ports.TaskBatch{Records: records}), false
}

func (q *Query) send(batch ports.TaskBatch) bool {
	select {
	case q.batches <- batch:
		return true
	case <-q.ctx.Done():
		return false
	}
}

var _ ports.Subscription = (*Query)(nil)
