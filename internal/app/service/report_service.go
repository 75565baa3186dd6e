package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const reportTimeout = 30 * time.Second

// ReportService renders documents for completed tasks. It only reads tasks;
// a failing report never touches task state.
type ReportService struct {
	tasks    ports.TaskStore
	reports  ports.ReportStore
	renderer ports.ReportRenderer
	logger   *zap.Logger
	now      func() time.Time
	lang     string

	wg sync.WaitGroup
}

func NewReportService(tasks ports.TaskStore, reports ports.ReportStore, renderer ports.ReportRenderer, logger *zap.Logger, lang string) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lang == "" {
		lang = "en"
	}
	return &ReportService{
		tasks:    tasks,
		reports:  reports,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
		lang:     lang,
	}
}

func (s *ReportService) GenerateReport(ctx context.Context, principal domain.Principal, taskID string, lang string) (domain.TaskReport, error) {
	rec, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return domain.TaskReport{}, domain.Unavailable("get task", err)
	}
	task, err := domain.DecodeTask(rec)
	if err != nil {
		return domain.TaskReport{}, err
	}
	if !principal.IsAdmin() && task.AssignedTo != principal.ID {
		return domain.TaskReport{}, domain.ErrForbidden
	}
	return s.generate(ctx, principal, task, lang)
}

func (s *ReportService) generate(ctx context.Context, principal domain.Principal, task domain.Task, lang string) (domain.TaskReport, error) {
	if !task.IsCompleted() {
		return domain.TaskReport{}, domain.ErrTaskNotCompleted
	}

	payload, err := s.renderer.Render(ctx, task, lang)
	if err != nil {
		return domain.TaskReport{}, err
	}

	report := domain.TaskReport{
		TaskID:        task.ID,
		TaskTitle:     task.Title,
		CreatedBy:     principal.ID,
		CreatedByName: principal.DisplayName,
		CreatedAt:     s.now().UTC(),
	}
	id, err := s.reports.Put(ctx, report, payload)
	if err != nil {
		return domain.TaskReport{}, domain.Unavailable("store report", err)
	}
	report.ID = id

	s.logger.Info("report generated", zap.String("report_id", id), zap.String("task_id", task.ID))
	return report, nil
}

// Dispatch generates a report for task in the background. Failures are
// logged and dropped.
func (s *ReportService) Dispatch(principal domain.Principal, task domain.Task) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		if _, err := s.generate(ctx, principal, task, s.lang); err != nil {
			s.logger.Warn("automatic report failed", zap.String("task_id", task.ID), zap.Error(err))
		}
	}()
}

// Wait blocks until dispatched reports finish.
func (s *ReportService) Wait() {
	s.wg.Wait()
}

func (s *ReportService) ListReports(ctx context.Context, principal domain.Principal) ([]domain.TaskReport, error) {
	reports, err := s.reports.ListByCreator(ctx, principal.ID)
	if err != nil {
		return nil, domain.Unavailable("list reports", err)
	}
	return reports, nil
}

func (s *ReportService) ReportDocument(ctx context.Context, principal domain.Principal, id string) (domain.TaskReport, []byte, error) {
	report, err := s.owned(ctx, principal, id)
	if err != nil {
		return domain.TaskReport{}, nil, err
	}
	payload, err := s.reports.Payload(ctx, id)
	if err != nil {
		return domain.TaskReport{}, nil, domain.Unavailable("read report payload", err)
	}
	return report, payload, nil
}

func (s *ReportService) DeleteReport(ctx context.Context, principal domain.Principal, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return domain.Unavailable("delete report", err)
	}
	return nil
}

func (s *ReportService) ContentType() string {
	return s.renderer.ContentType()
}

func (s *ReportService) owned(ctx context.Context, principal domain.Principal, id string) (domain.TaskReport, error) {
	report, err := s.reports.Get(ctx, id)
	if err != nil {
		return domain.TaskReport{}, domain.Unavailable("get report", err)
	}
	if !principal.IsAdmin() && report.CreatedBy != principal.ID {
		return domain.TaskReport{}, domain.ErrForbidden
	}
	return report, nil
}

var _ ports.ReportService = (*ReportService)(nil)
