package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

// CompletionHook is told about tasks that just reached completed. It must
// not block.
type CompletionHook func(principal domain.Principal, task domain.Task)

type TaskService struct {
	store     ports.TaskStore
	users     ports.UserDirectory
	validator *Validator
	patcher   ports.ProjectionPatcher
	onDone    CompletionHook
	logger    *zap.Logger
	now       func() time.Time
}

type TaskServiceOption func(*TaskService)

// WithPatcher lays successful commands over the projection until the store
// feed confirms them.
func WithPatcher(patcher ports.ProjectionPatcher) TaskServiceOption {
	return func(s *TaskService) { s.patcher = patcher }
}

func WithCompletionHook(hook CompletionHook) TaskServiceOption {
	return func(s *TaskService) { s.onDone = hook }
}

func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) { s.now = now }
}

func WithLogger(logger *zap.Logger) TaskServiceOption {
	return func(s *TaskService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewTaskService(store ports.TaskStore, users ports.UserDirectory, validator *Validator, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		store:     store,
		users:     users,
		validator: validator,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the write time at the precision the store keeps
// (DATETIME(6)), so the echoed record reconciles the optimistic patch.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TaskService) CreateTask(ctx context.Context, principal domain.Principal, input domain.CreateTaskInput) (domain.Task, error) {
	if !principal.IsAdmin() {
		return domain.Task{}, domain.ErrForbidden
	}

	now := s.timestamp()
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validator.ValidateCreate(ctx, input, now); err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		Title:          input.Title,
		Description:    input.Description,
		AssignedTo:     input.AssignedTo,
		AssignedToName: s.displayName(ctx, input.AssignedTo),
		CreatedBy:      principal.ID,
		CreatedByName:  principal.DisplayName,
		Status:         domain.TaskStatusPlanned,
		SLADeadline:    input.SLADeadline.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := s.store.Create(ctx, task)
	if err != nil {
		return domain.Task{}, domain.Unavailable("create task", err)
	}
	task.ID = id

	s.patchUpsert(task)
	s.logger.Info("task created", zap.String("task_id", id), zap.String("assigned_to", task.AssignedTo))
	return task, nil
}

// UpdateTask edits title, description, assignee or deadline. Assignees may
// edit the text of their own tasks; reassigning and moving deadlines is
// reserved to admins.
func (s *TaskService) UpdateTask(ctx context.Context, principal domain.Principal, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	current, err := s.load(ctx, principal, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !principal.IsAdmin() && (input.AssignedTo != nil || input.SLADeadline != nil) {
		return domain.Task{}, domain.ErrForbidden
	}

	now := s.timestamp()
	input = trimUpdate(input)
	if err := s.validator.ValidateUpdate(ctx, current, input, now); err != nil {
		return domain.Task{}, err
	}

	updated := input.Apply(current)
	if input.AssignedTo != nil && *input.AssignedTo != current.AssignedTo {
		updated.AssignedToName = s.displayName(ctx, updated.AssignedTo)
	}
	updated.SLADeadline = updated.SLADeadline.UTC()
	updated.UpdatedAt = now

	if err := s.store.Update(ctx, updated); err != nil {
		return domain.Task{}, domain.Unavailable("update task", err)
	}

	s.patchUpsert(updated)
	return updated, nil
}

// AdvanceStatus moves a task one step forward. Completing a task fires the
// completion hook after the store acknowledged the write.
func (s *TaskService) AdvanceStatus(ctx context.Context, principal domain.Principal, id string) (domain.Task, error) {
	current, err := s.load(ctx, principal, id)
	if err != nil {
		return domain.Task{}, err
	}

	advanced, err := domain.Advance(current, s.timestamp())
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.store.Update(ctx, advanced); err != nil {
		return domain.Task{}, domain.Unavailable("advance task", err)
	}

	s.patchUpsert(advanced)
	s.logger.Info("task advanced",
		zap.String("task_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(advanced.Status)),
	)
	if advanced.IsCompleted() && s.onDone != nil {
		s.onDone(principal, advanced)
	}
	return advanced, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, principal domain.Principal, id string) error {
	if !principal.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return domain.Unavailable("delete task", err)
	}

	if s.patcher != nil {
		s.patcher.PatchDelete(id)
	}
	s.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// load fetches the current version of a task and checks the principal may
// act on it.
func (s *TaskService) load(ctx context.Context, principal domain.Principal, id string) (domain.Task, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Task{}, domain.Unavailable("get task", err)
	}
	task, err := domain.DecodeTask(rec)
	if err != nil {
		return domain.Task{}, err
	}
	if !principal.IsAdmin() && task.AssignedTo != principal.ID {
		return domain.Task{}, domain.ErrForbidden
	}
	return task, nil
}

func (s *TaskService) displayName(ctx context.Context, userID string) string {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("could not resolve user name", zap.String("user_id", userID), zap.Error(err))
		}
		return ""
	}
	return user.DisplayName
}

func (s *TaskService) patchUpsert(task domain.Task) {
	if s.patcher != nil {
		s.patcher.PatchUpsert(task)
	}
}

func trimUpdate(input domain.UpdateTaskInput) domain.UpdateTaskInput {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		input.Description = &description
	}
	return input
}

var _ ports.TaskService = (*TaskService)(nil)
