package ports

import (
	"context"
	"time"

	"taskflow/internal/core/domain"
)

// TaskFilter scopes a query. An empty AssignedTo means every task.
type TaskFilter struct {
	AssignedTo string
}

// FilterFor returns the query scope of a principal: admins see everything,
// everyone else only the tasks assigned to them.
func FilterFor(principal domain.Principal) TaskFilter {
	if principal.IsAdmin() {
		return TaskFilter{}
	}
	return TaskFilter{AssignedTo: principal.ID}
}

func (f TaskFilter) Matches(assignedTo string) bool {
	return f.AssignedTo == "" || f.AssignedTo == assignedTo
}

// TaskBatch is one emission of a subscription: either the full, ordered
// result set of the query or a transport error.
type TaskBatch struct {
	Records []domain.TaskRecord
	Err     error
}

// Subscription is a live query. Batches is closed once the subscription ends.
type Subscription interface {
	Batches() <-chan TaskBatch
	Cancel()
}

// TaskStore is the remote source of truth. Records are returned ordered by
// createdAt descending. Update has full-document replace semantics.
type TaskStore interface {
	List(ctx context.Context, filter TaskFilter) ([]domain.TaskRecord, error)
	Get(ctx context.Context, id string) (domain.TaskRecord, error)
	Subscribe(ctx context.Context, filter TaskFilter) (Subscription, error)
	Create(ctx context.Context, task domain.Task) (string, error)
	Update(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
}

// ProjectionPatcher receives optimistic patches from the command layer.
type ProjectionPatcher interface {
	PatchUpsert(task domain.Task)
	PatchDelete(id string)
}

type TaskService interface {
	CreateTask(ctx context.Context, principal domain.Principal, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, principal domain.Principal, id string, input domain.UpdateTaskInput) (domain.Task, error)
	AdvanceStatus(ctx context.Context, principal domain.Principal, id string) (domain.Task, error)
	DeleteTask(ctx context.Context, principal domain.Principal, id string) error
}

type TaskCounts struct {
	Total      int
	Completed  int
	InProgress int
	AtRisk     int
}

type FeedHealth struct {
	Degraded  bool
	LastError string
	Since     time.Time
}

// SessionState summarizes a principal's projection for change streams.
type SessionState struct {
	Version   uint64
	AppliedAt time.Time
	Health    FeedHealth
	Counts    TaskCounts
}

type ViewService interface {
	ListTasks(ctx context.Context, principal domain.Principal, status *domain.TaskStatus) ([]domain.Task, error)
	GetTask(ctx context.Context, principal domain.Principal, id string) (domain.Task, error)
	UpcomingSLA(ctx context.Context, principal domain.Principal) ([]domain.Task, error)
	AtRisk(ctx context.Context, principal domain.Principal) ([]domain.Task, error)
	Recent(ctx context.Context, principal domain.Principal) ([]domain.Task, error)
	ByAssignee(ctx context.Context, principal domain.Principal, userID string) ([]domain.Task, error)
	Counts(ctx context.Context, principal domain.Principal) (TaskCounts, error)
	State(ctx context.Context, principal domain.Principal) (SessionState, error)
	Watch(ctx context.Context, principal domain.Principal) (<-chan struct{}, func(), error)
	SLAStatus(task domain.Task) domain.SLAStatus
	Now() time.Time
}
