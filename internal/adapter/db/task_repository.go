package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const taskColumns = `
  id, title, description, assigned_to, assigned_to_name,
  created_by, created_by_name, status, sla_deadline, created_at, updated_at`

const listTasksQuery = `SELECT` + taskColumns + `
FROM tasks
ORDER BY created_at DESC, id ASC;
`

const listTasksByAssigneeQuery = `SELECT` + taskColumns + `
FROM tasks
WHERE assigned_to = ?
ORDER BY created_at DESC, id ASC;
`

const getTaskQuery = `SELECT` + taskColumns + `
FROM tasks
WHERE id = ?;
`

const insertTaskQuery = `
INSERT INTO tasks (` + taskColumns + `)
VALUES (
  :id, :title, :description, :assigned_to, :assigned_to_name,
  :created_by, :created_by_name, :status, :sla_deadline, :created_at, :updated_at
);
`

const updateTaskQuery = `
UPDATE tasks SET
  title = :title,
  description = :description,
  assigned_to = :assigned_to,
  assigned_to_name = :assigned_to_name,
  created_by = :created_by,
  created_by_name = :created_by_name,
  status = :status,
  sla_deadline = :sla_deadline,
  created_at = :created_at,
  updated_at = :updated_at
WHERE id = :id;
`

const deleteTaskQuery = `DELETE FROM tasks WHERE id = ?;`

// TaskRepository is the one-shot side of the task store. It hands back raw
// records; decoding is left to consumers.
type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Description    sql.NullString `db:"description"`
	AssignedTo     sql.NullString `db:"assigned_to"`
	AssignedToName sql.NullString `db:"assigned_to_name"`
	CreatedBy      sql.NullString `db:"created_by"`
	CreatedByName  sql.NullString `db:"created_by_name"`
	Status         string         `db:"status"`
	SLADeadline    sql.NullTime   `db:"sla_deadline"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]domain.TaskRecord, error) {
	var rows []taskRow
	var err error
	if filter.AssignedTo == "" {
		err = r.db.SelectContext(ctx, &rows, listTasksQuery)
	} else {
		err = r.db.SelectContext(ctx, &rows, listTasksByAssigneeQuery, filter.AssignedTo)
	}
	if err != nil {
		return nil, domain.Unavailable("list tasks", err)
	}

	records := make([]domain.TaskRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapTaskRowToRecord(row))
	}

	return records, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (domain.TaskRecord, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TaskRecord{}, domain.ErrTaskNotFound
		}
		return domain.TaskRecord{}, domain.Unavailable("get task", err)
	}
	return mapTaskRowToRecord(row), nil
}

// Create inserts task under a fresh id and returns it.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (string, error) {
	task.ID = uuid.NewString()
	if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, mapTaskToRow(task)); err != nil {
		return "", domain.Unavailable("insert task", err)
	}
	return task.ID, nil
}

// Update replaces every column of the stored task.
func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	result, err := r.db.NamedExecContext(ctx, updateTaskQuery, mapTaskToRow(task))
	if err != nil {
		return domain.Unavailable("update task", err)
	}
	return requireAffected(result, domain.ErrTaskNotFound)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteTaskQuery, id)
	if err != nil {
		return domain.Unavailable("delete task", err)
	}
	return requireAffected(result, domain.ErrTaskNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Unavailable("rows affected", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func mapTaskRowToRecord(row taskRow) domain.TaskRecord {
	rec := domain.TaskRecord{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description.String,
		AssignedTo:     row.AssignedTo.String,
		AssignedToName: row.AssignedToName.String,
		CreatedBy:      row.CreatedBy.String,
		CreatedByName:  row.CreatedByName.String,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	if row.SLADeadline.Valid {
		rec.SLADeadline = row.SLADeadline.Time
	}

	return rec
}

func mapTaskToRow(task domain.Task) taskRow {
	return taskRow{
		ID:             task.ID,
		Title:          task.Title,
		Description:    nullString(task.Description),
		AssignedTo:     nullString(task.AssignedTo),
		AssignedToName: nullString(task.AssignedToName),
		CreatedBy:      nullString(task.CreatedBy),
		CreatedByName:  nullString(task.CreatedByName),
		Status:         string(task.Status),
		SLADeadline:    sql.NullTime{Time: task.SLADeadline.UTC(), Valid: !task.SLADeadline.IsZero()},
		CreatedAt:      task.CreatedAt.UTC(),
		UpdatedAt:      task.UpdatedAt.UTC(),
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
