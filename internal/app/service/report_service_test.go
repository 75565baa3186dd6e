package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/adapter/memstore"
	"taskflow/internal/app/service"
	"taskflow/internal/core/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport_CompletedTask(t *testing.T) {
	tasks := memstore.New()
	tasks.Seed(record("t-1", alice.ID, domain.TaskStatusCompleted, time.Hour))
	reports := new(MockReportStore)
	renderer := new(MockRenderer)
	renderer.On("Render", mock.Anything, mock.MatchedBy(func(task domain.Task) bool { return task.ID == "t-1" }), "tr").
		Return([]byte("document"), nil)
	reports.On("Put", mock.Anything, mock.MatchedBy(func(r domain.TaskReport) bool {
		return r.TaskID == "t-1" && r.CreatedBy == alice.ID && r.TaskTitle == "task t-1"
	}), []byte("document")).Return("r-1", nil)

	svc := service.NewReportService(tasks, reports, renderer, zap.NewNop(), "en")
	report, err := svc.GenerateReport(context.Background(), alice, "t-1", "tr")

	require.NoError(t, err)
	require.Equal(t, "r-1", report.ID)
	require.Equal(t, "Alice", report.CreatedByName)
	reports.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestGenerateReport_Rejections(t *testing.T) {
	tasks := memstore.New()
	tasks.Seed(
		record("open", alice.ID, domain.TaskStatusReview, time.Hour),
		record("done", alice.ID, domain.TaskStatusCompleted, time.Hour),
	)
	reports := new(MockReportStore)
	renderer := new(MockRenderer)
	svc := service.NewReportService(tasks, reports, renderer, zap.NewNop(), "en")

	_, err := svc.GenerateReport(context.Background(), alice, "open", "en")
	require.ErrorIs(t, err, domain.ErrTaskNotCompleted)

	_, err = svc.GenerateReport(context.Background(), bob, "done", "en")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.GenerateReport(context.Background(), alice, "missing", "en")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	reports.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_FailureDoesNotTouchTask(t *testing.T) {
	tasks := memstore.New()
	tasks.Seed(record("t-1", alice.ID, domain.TaskStatusCompleted, time.Hour))
	reports := new(MockReportStore)
	renderer := new(MockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything, "en").Return(nil, errors.New("template broke"))
	svc := service.NewReportService(tasks, reports, renderer, zap.NewNop(), "en")

	rec, err := tasks.Get(context.Background(), "t-1")
	require.NoError(t, err)
	task, err := domain.DecodeTask(rec)
	require.NoError(t, err)

	svc.Dispatch(alice, task)
	svc.Wait()

	after, err := tasks.Get(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, rec, after)
	renderer.AssertExpectations(t)
}

func TestReportDocument_OwnerOrAdmin(t *testing.T) {
	reports := new(MockReportStore)
	renderer := new(MockRenderer)
	report := domain.TaskReport{ID: "r-1", TaskID: "t-1", CreatedBy: alice.ID}
	reports.On("Get", mock.Anything, "r-1").Return(report, nil)
	reports.On("Payload", mock.Anything, "r-1").Return([]byte("document"), nil)
	svc := service.NewReportService(memstore.New(), reports, renderer, zap.NewNop(), "en")

	got, payload, err := svc.ReportDocument(context.Background(), alice, "r-1")
	require.NoError(t, err)
	require.Equal(t, report, got)
	require.Equal(t, []byte("document"), payload)

	_, _, err = svc.ReportDocument(context.Background(), admin, "r-1")
	require.NoError(t, err)

	_, _, err = svc.ReportDocument(context.Background(), bob, "r-1")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteReport(t *testing.T) {
	reports := new(MockReportStore)
	reports.On("Get", mock.Anything, "r-1").Return(domain.TaskReport{ID: "r-1", CreatedBy: alice.ID}, nil)
	reports.On("Get", mock.Anything, "r-9").Return(domain.TaskReport{}, domain.ErrReportNotFound)
	reports.On("Delete", mock.Anything, "r-1").Return(nil).Once()
	svc := service.NewReportService(memstore.New(), reports, new(MockRenderer), zap.NewNop(), "en")

	require.ErrorIs(t, svc.DeleteReport(context.Background(), bob, "r-1"), domain.ErrForbidden)
	require.NoError(t, svc.DeleteReport(context.Background(), alice, "r-1"))
	require.ErrorIs(t, svc.DeleteReport(context.Background(), alice, "r-9"), domain.ErrReportNotFound)
	reports.AssertExpectations(t)
}

func TestListReports(t *testing.T) {
	reports := new(MockReportStore)
	reports.On("ListByCreator", mock.Anything, alice.ID).Return([]domain.TaskReport{{ID: "r-1"}}, nil)
	reports.On("ListByCreator", mock.Anything, bob.ID).Return(nil, errors.New("timeout"))
	svc := service.NewReportService(memstore.New(), reports, new(MockRenderer), zap.NewNop(), "en")

	got, err := svc.ListReports(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = svc.ListReports(context.Background(), bob)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
