package projection

import (
	"sort"
	"time"

	"taskflow/internal/core/domain"
)

// Snapshot is an immutable, ordered view of the task set. Once published it
// is never modified, so readers can hold it without locks.
type Snapshot struct {
	tasks     []domain.Task
	index     map[string]int
	version   uint64
	appliedAt time.Time
}

var emptySnapshot = &Snapshot{index: map[string]int{}}

func newSnapshot(tasks []domain.Task, version uint64, appliedAt time.Time) *Snapshot {
	index := make(map[string]int, len(tasks))
	for i, task := range tasks {
		index[task.ID] = i
	}
	return &Snapshot{tasks: tasks, index: index, version: version, appliedAt: appliedAt}
}

// Tasks returns a copy of the tasks in projection order (createdAt descending).
func (s *Snapshot) Tasks() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Each calls fn for every task in projection order until fn returns false.
func (s *Snapshot) Each(fn func(domain.Task) bool) {
	for _, task := range s.tasks {
		if !fn(task) {
			return
		}
	}
}

func (s *Snapshot) Get(id string) (domain.Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Snapshot) Len() int { return len(s.tasks) }

func (s *Snapshot) Version() uint64 { return s.version }

func (s *Snapshot) AppliedAt() time.Time { return s.appliedAt }

// orderTasks drops duplicate ids (last one wins) and sorts by createdAt
// descending, breaking ties by id so equal batches give equal snapshots.
func orderTasks(tasks []domain.Task) []domain.Task {
	seen := make(map[string]int, len(tasks))
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if i, ok := seen[task.ID]; ok {
			out[i] = task
			continue
		}
		seen[task.ID] = len(out)
		out = append(out, task)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
