// Package views derives read-only task listings from a projection snapshot.
// Every function is a pure function of (snapshot, now); nothing is cached.
package views

import (
	"sort"
	"time"

	"taskflow/internal/app/projection"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

type Evaluator struct {
	thresholds domain.SLAThresholds
}

func NewEvaluator(thresholds domain.SLAThresholds) Evaluator {
	return Evaluator{thresholds: thresholds.Normalize()}
}

func (e Evaluator) Thresholds() domain.SLAThresholds {
	return e.thresholds
}

func (e Evaluator) Classify(task domain.Task, now time.Time) domain.SLAStatus {
	return e.thresholds.Classify(task.SLADeadline, now)
}

func filter(snap *projection.Snapshot, keep func(domain.Task) bool) []domain.Task {
	out := make([]domain.Task, 0)
	snap.Each(func(task domain.Task) bool {
		if keep(task) {
			out = append(out, task)
		}
		return true
	})
	return out
}

func sortByDeadline(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].SLADeadline.Before(tasks[j].SLADeadline)
	})
}

// All returns every task in projection order.
func All(snap *projection.Snapshot) []domain.Task {
	return snap.Tasks()
}

func ByStatus(snap *projection.Snapshot, status domain.TaskStatus) []domain.Task {
	return filter(snap, func(task domain.Task) bool {
		return task.Status == status
	})
}

func ByAssignee(snap *projection.Snapshot, userID string) []domain.Task {
	return filter(snap, func(task domain.Task) bool {
		return task.AssignedTo == userID
	})
}

// Recent lists the tasks still in flight, in projection order.
func Recent(snap *projection.Snapshot) []domain.Task {
	return filter(snap, func(task domain.Task) bool {
		return !task.IsCompleted()
	})
}

// UpcomingSLA lists open tasks in the warning or critical tier, soonest
// deadline first. Overdue tasks are left out.
func (e Evaluator) UpcomingSLA(snap *projection.Snapshot, now time.Time) []domain.Task {
	tasks := filter(snap, func(task domain.Task) bool {
		return !task.IsCompleted() && e.Classify(task, now).IsUpcoming()
	})
	sortByDeadline(tasks)
	return tasks
}

// AtRisk lists open tasks that are warning, critical or overdue, soonest
// deadline first.
func (e Evaluator) AtRisk(snap *projection.Snapshot, now time.Time) []domain.Task {
	tasks := filter(snap, func(task domain.Task) bool {
		return !task.IsCompleted() && e.Classify(task, now).IsAtRisk()
	})
	sortByDeadline(tasks)
	return tasks
}

func (e Evaluator) Counts(snap *projection.Snapshot, now time.Time) ports.TaskCounts {
	counts := ports.TaskCounts{Total: snap.Len()}
	snap.Each(func(task domain.Task) bool {
		switch task.Status {
		case domain.TaskStatusCompleted:
			counts.Completed++
			return true
		case domain.TaskStatusTodo, domain.TaskStatusInProgress:
			counts.InProgress++
		}
		if e.Classify(task, now).IsAtRisk() {
			counts.AtRisk++
		}
		return true
	})
	return counts
}
