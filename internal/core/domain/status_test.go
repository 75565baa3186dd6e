package domain_test

import (
	"testing"
	"time"

	"taskflow/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestTaskStatus_NextWalksLifecycleInOrder(t *testing.T) {
	status := domain.TaskStatusPlanned
	var visited []domain.TaskStatus
	for i := 0; i < 4; i++ {
		next, ok := status.Next()
		require.True(t, ok, "step %d from %s", i, status)
		visited = append(visited, next)
		status = next
	}

	require.Equal(t, []domain.TaskStatus{
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusReview,
		domain.TaskStatusCompleted,
	}, visited)

	_, ok := domain.TaskStatusCompleted.Next()
	require.False(t, ok)
}

func TestTaskStatus_UnknownTokenHasNoSuccessor(t *testing.T) {
	_, ok := domain.TaskStatus("blocked").Next()
	require.False(t, ok)
	require.False(t, domain.TaskStatus("blocked").IsValid())
}

func TestParseTaskStatus(t *testing.T) {
	for _, status := range domain.TaskStatuses() {
		parsed, err := domain.ParseTaskStatus(string(status))
		require.NoError(t, err)
		require.Equal(t, status, parsed)
	}

	_, err := domain.ParseTaskStatus("Planlandı")
	require.Error(t, err)
}

func TestTaskStatus_LabelKeyIsDistinctFromToken(t *testing.T) {
	require.Equal(t, "statusInProgress", domain.TaskStatusInProgress.LabelKey())
	require.Equal(t, "statusUnknown", domain.TaskStatus("x").LabelKey())
}

func TestAdvance_ReviewToCompletedThenFails(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := createdAt.Add(48 * time.Hour)
	task := domain.Task{
		ID:        "t-1",
		Status:    domain.TaskStatusReview,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	advanced, err := domain.Advance(task, now)
	require.NoError(t, err)
	require.Equal(t, domain.TaskStatusCompleted, advanced.Status)
	require.Equal(t, now, advanced.UpdatedAt)
	require.Equal(t, createdAt, advanced.CreatedAt)

	completedAt, ok := advanced.CompletedAt()
	require.True(t, ok)
	require.Equal(t, now, completedAt)

	_, err = domain.Advance(advanced, now.Add(time.Minute))
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	task := domain.Task{ID: "t-1", Status: domain.TaskStatusPlanned}

	_, err := domain.Advance(task, time.Now())
	require.NoError(t, err)
	require.Equal(t, domain.TaskStatusPlanned, task.Status)
}
