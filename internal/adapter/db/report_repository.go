package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"taskflow/internal/core/domain"
)

const reportColumns = `id, task_id, task_title, created_by, created_by_name, created_at`

const listReportsByCreatorQuery = `
SELECT ` + reportColumns + `
FROM task_reports
WHERE created_by = ?
ORDER BY created_at DESC, id ASC;
`

const getReportQuery = `SELECT ` + reportColumns + ` FROM task_reports WHERE id = ?;`

const insertReportQuery = `
INSERT INTO task_reports (` + reportColumns + `)
VALUES (:id, :task_id, :task_title, :created_by, :created_by_name, :created_at);
`

const deleteReportQuery = `DELETE FROM task_reports WHERE id = ?;`

// ReportRepository stores report metadata only.
type ReportRepository struct {
	db *sqlx.DB
}

type reportRow struct {
	ID            string    `db:"id"`
	TaskID        string    `db:"task_id"`
	TaskTitle     string    `db:"task_title"`
	CreatedBy     string    `db:"created_by"`
	CreatedByName string    `db:"created_by_name"`
	CreatedAt     time.Time `db:"created_at"`
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Insert(ctx context.Context, report domain.TaskReport) error {
	row := reportRow{
		ID:            report.ID,
		TaskID:        report.TaskID,
		TaskTitle:     report.TaskTitle,
		CreatedBy:     report.CreatedBy,
		CreatedByName: report.CreatedByName,
		CreatedAt:     report.CreatedAt.UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, insertReportQuery, row); err != nil {
		return domain.Unavailable("insert report", err)
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id string) (domain.TaskReport, error) {
	var row reportRow
	if err := r.db.GetContext(ctx, &row, getReportQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TaskReport{}, domain.ErrReportNotFound
		}
		return domain.TaskReport{}, domain.Unavailable("get report", err)
	}
	return mapReportRow(row), nil
}

func (r *ReportRepository) ListByCreator(ctx context.Context, userID string) ([]domain.TaskReport, error) {
	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, listReportsByCreatorQuery, userID); err != nil {
		return nil, domain.Unavailable("list reports", err)
	}

	reports := make([]domain.TaskReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, mapReportRow(row))
	}
	return reports, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteReportQuery, id)
	if err != nil {
		return domain.Unavailable("delete report", err)
	}
	return requireAffected(result, domain.ErrReportNotFound)
}

func mapReportRow(row reportRow) domain.TaskReport {
	return domain.TaskReport{
		ID:            row.ID,
		TaskID:        row.TaskID,
		TaskTitle:     row.TaskTitle,
		CreatedBy:     row.CreatedBy,
		CreatedByName: row.CreatedByName,
		CreatedAt:     row.CreatedAt,
	}
}
