package domain

import (
	"strings"
	"time"
)

// TaskRecord is a task as the store emits it: enums are raw tokens and
// nothing has been checked yet.
type TaskRecord struct {
	ID             string
	Title          string
	Description    string
	AssignedTo     string
	AssignedToName string
	CreatedBy      string
	CreatedByName  string
	Status         string
	SLADeadline    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DecodeTask turns a store record into a Task, rejecting records a consumer
// could not reason about. Empty titles are tolerated here since that is a
// command-time rule, not a store constraint.
func DecodeTask(rec TaskRecord) (Task, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return Task{}, &DecodeError{RecordID: rec.ID, Field: "id", Reason: "missing"}
	}
	status, err := ParseTaskStatus(rec.Status)
	if err != nil {
		return Task{}, &DecodeError{RecordID: rec.ID, Field: "status", Reason: err.Error()}
	}
	if rec.AssignedTo == "" {
		return Task{}, &DecodeError{RecordID: rec.ID, Field: "assignedTo", Reason: "missing"}
	}
	if rec.SLADeadline.IsZero() {
		return Task{}, &DecodeError{RecordID: rec.ID, Field: "slaDeadline", Reason: "missing"}
	}
	if rec.CreatedAt.IsZero() {
		return Task{}, &DecodeError{RecordID: rec.ID, Field: "createdAt", Reason: "missing"}
	}

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = rec.CreatedAt
	}

	return Task{
		ID:             rec.ID,
		Title:          rec.Title,
		Description:    rec.Description,
		AssignedTo:     rec.AssignedTo,
		AssignedToName: rec.AssignedToName,
		CreatedBy:      rec.CreatedBy,
		CreatedByName:  rec.CreatedByName,
		Status:         status,
		SLADeadline:    rec.SLADeadline.UTC(),
		CreatedAt:      rec.CreatedAt.UTC(),
		UpdatedAt:      updatedAt.UTC(),
	}, nil
}

func EncodeTask(task Task) TaskRecord {
	return TaskRecord{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		AssignedTo:     task.AssignedTo,
		AssignedToName: task.AssignedToName,
		CreatedBy:      task.CreatedBy,
		CreatedByName:  task.CreatedByName,
		Status:         string(task.Status),
		SLADeadline:    task.SLADeadline,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}
