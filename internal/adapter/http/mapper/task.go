package mapper

import (
	"time"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/render"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

// Classifier computes the SLA state of a task at read time.
type Classifier interface {
	SLAStatus(task domain.Task) domain.SLAStatus
	Now() time.Time
}

func ToTaskItems(tasks []domain.Task, classifier Classifier, lang string) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task, classifier, lang))
	}
	return items
}

// ToTaskItem renders a task with its localized status and, unless the task
// is completed, its SLA state and remaining time.
func ToTaskItem(task domain.Task, classifier Classifier, lang string) dto.TaskItem {
	item := dto.TaskItem{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		AssignedTo:     task.AssignedTo,
		AssignedToName: task.AssignedToName,
		CreatedBy:      task.CreatedBy,
		CreatedByName:  task.CreatedByName,
		Status:         string(task.Status),
		StatusLabel:    render.StatusLabel(lang, task.Status),
		CreatedAt:      task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      task.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if !task.SLADeadline.IsZero() {
		item.SLADeadline = formatTime(task.SLADeadline)
	}

	if completedAt, ok := task.CompletedAt(); ok {
		item.CompletedAt = formatTime(completedAt)
		return item
	}

	if !task.SLADeadline.IsZero() {
		sla := classifier.SLAStatus(task)
		item.SLAStatus = string(sla)
		item.SLALabel = render.SLALabel(lang, sla)
		item.TimeRemaining = render.Remaining(lang, task.SLADeadline, classifier.Now())
	}

	return item
}

func ToTaskCounts(counts ports.TaskCounts) dto.TaskCounts {
	return dto.TaskCounts{
		Total:      counts.Total,
		Completed:  counts.Completed,
		InProgress: counts.InProgress,
		AtRisk:     counts.AtRisk,
	}
}

func ToSessionState(state ports.SessionState) dto.SessionState {
	out := dto.SessionState{
		Version: state.Version,
		Health: dto.FeedHealth{
			Degraded:  state.Health.Degraded,
			LastError: state.Health.LastError,
		},
		Counts: ToTaskCounts(state.Counts),
	}
	if !state.AppliedAt.IsZero() {
		out.AppliedAt = formatTime(state.AppliedAt)
	}
	if state.Health.Degraded && !state.Health.Since.IsZero() {
		out.Health.Since = formatTime(state.Health.Since)
	}
	return out
}

func formatTime(t time.Time) *string {
	value := t.UTC().Format(time.RFC3339)
	return &value
}
