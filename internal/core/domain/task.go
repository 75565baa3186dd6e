package domain

import "time"

type Task struct {
	// ID is assigned by the store; empty until the task is committed.
	ID             string
	Title          string
	Description    string
	AssignedTo     string
	AssignedToName string
	CreatedBy      string
	CreatedByName  string
	Status         TaskStatus
	SLADeadline    time.Time
	CreatedAt      time.Time
	// UpdatedAt doubles as the completion time once Status is completed.
	UpdatedAt time.Time
}

func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// CompletedAt returns the completion time of a completed task.
func (t Task) CompletedAt() (time.Time, bool) {
	if !t.IsCompleted() {
		return time.Time{}, false
	}
	return t.UpdatedAt, true
}

// Advance moves the task one step along the lifecycle.
func Advance(task Task, now time.Time) (Task, error) {
	next, ok := task.Status.Next()
	if !ok {
		return Task{}, ErrInvalidTransition
	}
	task.Status = next
	task.UpdatedAt = now
	return task, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	SLADeadline time.Time
}

// UpdateTaskInput carries editable fields; nil means unchanged. Status is not
// editable here, it only moves through Advance.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssignedTo  *string
	SLADeadline *time.Time
}

func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.AssignedTo == nil && in.SLADeadline == nil
}

// Apply returns a copy of task with the set fields replaced.
func (in UpdateTaskInput) Apply(task Task) Task {
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.AssignedTo != nil {
		task.AssignedTo = *in.AssignedTo
	}
	if in.SLADeadline != nil {
		task.SLADeadline = *in.SLADeadline
	}
	return task
}
