package domain

import "fmt"

// TaskStatus is the wire token of a lifecycle state. User-facing labels are
// resolved separately through the translator (see LabelKey).
type TaskStatus string

const (
	TaskStatusPlanned    TaskStatus = "planned"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
)

var taskStatusOrder = []TaskStatus{
	TaskStatusPlanned,
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusCompleted,
}

// TaskStatuses returns the lifecycle states in order, initial state first.
func TaskStatuses() []TaskStatus {
	out := make([]TaskStatus, len(taskStatusOrder))
	copy(out, taskStatusOrder)
	return out
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown task status %q", value)
	}
	return status, nil
}

func (s TaskStatus) IsValid() bool {
	return s.rank() >= 0
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted
}

// Next returns the single legal successor of s. It reports false for the
// terminal state and for unknown tokens.
func (s TaskStatus) Next() (TaskStatus, bool) {
	rank := s.rank()
	if rank < 0 || rank == len(taskStatusOrder)-1 {
		return "", false
	}
	return taskStatusOrder[rank+1], true
}

// LabelKey is the translation message id of the status label.
func (s TaskStatus) LabelKey() string {
	switch s {
	case TaskStatusPlanned:
		return "statusPlanned"
	case TaskStatusTodo:
		return "statusTodo"
	case TaskStatusInProgress:
		return "statusInProgress"
	case TaskStatusReview:
		return "statusReview"
	case TaskStatusCompleted:
		return "statusCompleted"
	default:
		return "statusUnknown"
	}
}

func (s TaskStatus) rank() int {
	for i, candidate := range taskStatusOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}
