package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskflow/internal/adapter/memstore"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"

	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func record(id, assignee string, offset time.Duration) domain.TaskRecord {
	return domain.TaskRecord{
		ID:          id,
		Title:       id,
		AssignedTo:  assignee,
		Status:      string(domain.TaskStatusTodo),
		SLADeadline: created.Add(48 * time.Hour),
		CreatedAt:   created.Add(offset),
		UpdatedAt:   created.Add(offset),
	}
}

func next(t *testing.T, sub ports.Subscription) ports.TaskBatch {
	t.Helper()
	select {
	case batch, ok := <-sub.Batches():
		require.True(t, ok)
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
		return ports.TaskBatch{}
	}
}

func TestStore_ListOrdersNewestFirstAndFilters(t *testing.T) {
	store := memstore.New()
	store.Seed(record("a", "u-1", 0), record("b", "u-2", time.Minute), record("c", "u-1", 2*time.Minute))

	all, err := store.List(context.Background(), ports.TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, ids(all))

	mine, err := store.List(context.Background(), ports.TaskFilter{AssignedTo: "u-1"})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a"}, ids(mine))
}

func TestStore_CreateAssignsID(t *testing.T) {
	store := memstore.New()

	id, err := store.Create(context.Background(), domain.Task{
		Title:       "write report",
		AssignedTo:  "u-1",
		Status:      domain.TaskStatusPlanned,
		SLADeadline: created.Add(48 * time.Hour),
		CreatedAt:   created,
		UpdatedAt:   created,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "write report", rec.Title)
	require.Equal(t, "planned", rec.Status)
}

func TestStore_UpdateAndDeleteMissing(t *testing.T) {
	store := memstore.New()

	err := store.Update(context.Background(), domain.Task{ID: "ghost"})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = store.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = store.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_SubscriptionEmitsOnEveryMutation(t *testing.T) {
	store := memstore.New()
	store.Seed(record("a", "u-1", 0))

	sub, err := store.Subscribe(context.Background(), ports.TaskFilter{})
	require.NoError(t, err)
	defer sub.Cancel()

	require.Len(t, next(t, sub).Records, 1)

	store.Seed(record("b", "u-2", time.Minute))
	require.Equal(t, []string{"b", "a"}, ids(next(t, sub).Records))

	require.NoError(t, store.Delete(context.Background(), "a"))
	require.Equal(t, []string{"b"}, ids(next(t, sub).Records))
}

func TestStore_SubscriptionHonorsFilter(t *testing.T) {
	store := memstore.New()
	store.Seed(record("a", "u-1", 0), record("b", "u-2", time.Minute))

	sub, err := store.Subscribe(context.Background(), ports.TaskFilter{AssignedTo: "u-2"})
	require.NoError(t, err)
	defer sub.Cancel()

	require.Equal(t, []string{"b"}, ids(next(t, sub).Records))
}

func TestStore_InterruptAndUnavailable(t *testing.T) {
	store := memstore.New()
	sub, err := store.Subscribe(context.Background(), ports.TaskFilter{})
	require.NoError(t, err)
	defer sub.Cancel()
	next(t, sub)

	store.Interrupt(errors.New("socket closed"))
	require.ErrorIs(t, next(t, sub).Err, domain.ErrStoreUnavailable)

	store.SetUnavailable(errors.New("offline"))
	_, err = store.Create(context.Background(), domain.Task{})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = store.Subscribe(context.Background(), ports.TaskFilter{})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestStore_CancelUnregistersSubscription(t *testing.T) {
	store := memstore.New()
	sub, err := store.Subscribe(context.Background(), ports.TaskFilter{})
	require.NoError(t, err)
	next(t, sub)
	require.Equal(t, 1, store.Subscribers())

	sub.Cancel()

	require.Equal(t, 0, store.Subscribers())
}

func ids(records []domain.TaskRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}
