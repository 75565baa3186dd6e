package livequery_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"taskflow/internal/adapter/livequery"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func receive(t *testing.T, q *livequery.Query) ports.TaskBatch {
	t.Helper()
	select {
	case batch, ok := <-q.Batches():
		require.True(t, ok, "batches closed")
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
		return ports.TaskBatch{}
	}
}

func TestQuery_EmitsInitialBatchAndReloadsOnTrigger(t *testing.T) {
	var loads atomic.Int32
	q := livequery.Start(context.Background(), func(ctx context.Context) ([]domain.TaskRecord, error) {
		n := loads.Add(1)
		return []domain.TaskRecord{{ID: string(rune('a' + n - 1))}}, nil
	})
	defer q.Cancel()

	first := receive(t, q)
	require.NoError(t, first.Err)
	require.Equal(t, "a", first.Records[0].ID)

	q.Trigger()
	second := receive(t, q)
	require.Equal(t, "b", second.Records[0].ID)
}

func TestQuery_LoadErrorBecomesErrorBatch(t *testing.T) {
	q := livequery.Start(context.Background(), func(ctx context.Context) ([]domain.TaskRecord, error) {
		return nil, errors.New("connection reset")
	})
	defer q.Cancel()

	batch := receive(t, q)
	require.ErrorIs(t, batch.Err, domain.ErrStoreUnavailable)
}

func TestQuery_FailDeliversErrorWithoutEndingQuery(t *testing.T) {
	q := livequery.Start(context.Background(), func(ctx context.Context) ([]domain.TaskRecord, error) {
		return nil, nil
	})
	defer q.Cancel()
	receive(t, q)

	q.Fail(errors.New("feed dropped"))
	batch := receive(t, q)
	require.EqualError(t, batch.Err, "feed dropped")

	q.Trigger()
	batch = receive(t, q)
	require.NoError(t, batch.Err)
}

func TestQuery_CancelClosesBatchesAndIsIdempotent(t *testing.T) {
	stopped := make(chan struct{})
	q := livequery.Start(context.Background(), func(ctx context.Context) ([]domain.TaskRecord, error) {
		return nil, nil
	}, livequery.OnStop(func() { close(stopped) }))

	q.Cancel()
	q.Cancel()

	_, ok := <-q.Batches()
	require.False(t, ok)
	<-stopped
}

func TestQuery_LimiterSpacesReloads(t *testing.T) {
	var loads atomic.Int32
	q := livequery.Start(context.Background(), func(ctx context.Context) ([]domain.TaskRecord, error) {
		loads.Add(1)
		return nil, nil
	}, livequery.WithLimiter(rate.NewLimiter(rate.Every(50*time.Millisecond), 1)))
	defer q.Cancel()

	start := time.Now()
	receive(t, q)
	q.Trigger()
	receive(t, q)

	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	require.Equal(t, int32(2), loads.Load())
}

func TestQuery_FailedLoadIsRetriedWithoutTrigger(t *testing.T) {
	var loads atomic.Int32
	q := livequery.Start(context.Background(), func(ctx context.Context) ([]domain.TaskRecord, error) {
		if loads.Add(1) <= 3 {
			return nil, errors.New("mysql down")
		}
		return []domain.TaskRecord{{ID: "a"}}, nil
	}, livequery.WithRetryBackoff(5*time.Millisecond, 20*time.Millisecond))
	defer q.Cancel()

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, receive(t, q).Err, domain.ErrStoreUnavailable)
	}
	batch := receive(t, q)
	require.NoError(t, batch.Err)
	require.Equal(t, "a", batch.Records[0].ID)

	select {
	case extra := <-q.Batches():
		t.Fatalf("unexpected batch after recovery: %+v", extra)
	case <-time.After(60 * time.Millisecond):
	}
	require.Equal(t, int32(4), loads.Load())
}
