package ports

import (
	"context"

	"taskflow/internal/core/domain"
)

// ReportStore keeps metadata and payload apart. Delete reclaims both.
type ReportStore interface {
	Put(ctx context.Context, report domain.TaskReport, payload []byte) (string, error)
	Get(ctx context.Context, id string) (domain.TaskReport, error)
	ListByCreator(ctx context.Context, userID string) ([]domain.TaskReport, error)
	Payload(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

type ReportRenderer interface {
	Render(ctx context.Context, task domain.Task, lang string) ([]byte, error)
	ContentType() string
}

type ReportService interface {
	GenerateReport(ctx context.Context, principal domain.Principal, taskID string, lang string) (domain.TaskReport, error)
	ListReports(ctx context.Context, principal domain.Principal) ([]domain.TaskReport, error)
	ReportDocument(ctx context.Context, principal domain.Principal, id string) (domain.TaskReport, []byte, error)
	DeleteReport(ctx context.Context, principal domain.Principal, id string) error
	ContentType() string
}
