package tests

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	httpadapter "taskflow/internal/adapter/http"
	"taskflow/internal/adapter/http/handlers"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

var (
	now   = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	admin = domain.Principal{ID: "u-admin", DisplayName: "Admin", Role: domain.RoleAdmin}
	alice = domain.Principal{ID: "u-alice", DisplayName: "Alice", Role: domain.RoleUser}
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) CreateTask(ctx context.Context, principal domain.Principal, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, principal, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, principal domain.Principal, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, principal, id, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) AdvanceStatus(ctx context.Context, principal domain.Principal, id string) (domain.Task, error) {
	args := m.Called(ctx, principal, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, principal domain.Principal, id string) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

type viewServiceMock struct {
	mock.Mock
}

func tasksResult(args mock.Arguments) ([]domain.Task, error) {
	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *viewServiceMock) ListTasks(ctx context.Context, principal domain.Principal, status *domain.TaskStatus) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, principal, status))
}

func (m *viewServiceMock) GetTask(ctx context.Context, principal domain.Principal, id string) (domain.Task, error) {
	args := m.Called(ctx, principal, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *viewServiceMock) UpcomingSLA(ctx context.Context, principal domain.Principal) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, principal))
}

func (m *viewServiceMock) AtRisk(ctx context.Context, principal domain.Principal) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, principal))
}

func (m *viewServiceMock) Recent(ctx context.Context, principal domain.Principal) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, principal))
}

func (m *viewServiceMock) ByAssignee(ctx context.Context, principal domain.Principal, userID string) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, principal, userID))
}

func (m *viewServiceMock) Counts(ctx context.Context, principal domain.Principal) (ports.TaskCounts, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(ports.TaskCounts), args.Error(1)
}

func (m *viewServiceMock) State(ctx context.Context, principal domain.Principal) (ports.SessionState, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(ports.SessionState), args.Error(1)
}

func (m *viewServiceMock) Watch(ctx context.Context, principal domain.Principal) (<-chan struct{}, func(), error) {
	args := m.Called(ctx, principal)
	var ch <-chan struct{}
	if value := args.Get(0); value != nil {
		ch = value.(chan struct{})
	}
	var stop func()
	if value := args.Get(1); value != nil {
		stop = value.(func())
	}
	return ch, stop, args.Error(2)
}

func (m *viewServiceMock) SLAStatus(task domain.Task) domain.SLAStatus {
	return domain.Classify(task.SLADeadline, now)
}

func (m *viewServiceMock) Now() time.Time {
	return now
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	var users []domain.User
	if value := args.Get(0); value != nil {
		users = value.([]domain.User)
	}
	return users, args.Error(1)
}

func (m *authServiceMock) GetUser(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *authServiceMock) Authenticate(ctx context.Context, credentials domain.Credentials) (domain.Principal, string, error) {
	args := m.Called(ctx, credentials)
	return args.Get(0).(domain.Principal), args.String(1), args.Error(2)
}

func (m *authServiceMock) Register(ctx context.Context, input domain.RegisterUserInput) (domain.User, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *authServiceMock) UpdateUserRole(ctx context.Context, principal domain.Principal, userID string, role domain.Role) error {
	args := m.Called(ctx, principal, userID, role)
	return args.Error(0)
}

// ParseToken accepts two fixed tokens so tests can act as either principal.
func (m *authServiceMock) ParseToken(token string) (domain.Principal, error) {
	switch token {
	case "admin-token":
		return admin, nil
	case "alice-token":
		return alice, nil
	default:
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
}

type reportServiceMock struct {
	mock.Mock
}

func (m *reportServiceMock) GenerateReport(ctx context.Context, principal domain.Principal, taskID string, lang string) (domain.TaskReport, error) {
	args := m.Called(ctx, principal, taskID, lang)
	return args.Get(0).(domain.TaskReport), args.Error(1)
}

func (m *reportServiceMock) ListReports(ctx context.Context, principal domain.Principal) ([]domain.TaskReport, error) {
	args := m.Called(ctx, principal)
	var reports []domain.TaskReport
	if value := args.Get(0); value != nil {
		reports = value.([]domain.TaskReport)
	}
	return reports, args.Error(1)
}

func (m *reportServiceMock) ReportDocument(ctx context.Context, principal domain.Principal, id string) (domain.TaskReport, []byte, error) {
	args := m.Called(ctx, principal, id)
	var payload []byte
	if value := args.Get(1); value != nil {
		payload = value.([]byte)
	}
	return args.Get(0).(domain.TaskReport), payload, args.Error(2)
}

func (m *reportServiceMock) DeleteReport(ctx context.Context, principal domain.Principal, id string) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

func (m *reportServiceMock) ContentType() string {
	return "text/plain; charset=utf-8"
}

type fixture struct {
	tasks   *taskServiceMock
	views   *viewServiceMock
	auth    *authServiceMock
	reports *reportServiceMock
	router  *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{
		tasks:   new(taskServiceMock),
		views:   new(viewServiceMock),
		auth:    new(authServiceMock),
		reports: new(reportServiceMock),
	}

	router := gin.New()
	httpadapter.RegisterRoutes(router, httpadapter.Handlers{
		Health:  handlers.NewHealthHandler(nil, nil, nil),
		Auth:    handlers.NewAuthHandler(f.auth),
		Tasks:   handlers.NewTaskHandler(f.tasks, f.views, 24*time.Hour),
		Views:   handlers.NewViewHandler(f.views),
		Stream:  handlers.NewStreamHandler(f.views, time.Hour),
		Reports: handlers.NewReportHandler(f.reports),
	}, f.auth, middleware.NewRateLimiter(0, 1))
	f.router = router
	return f
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.tasks.AssertExpectations(t)
	f.views.AssertExpectations(t)
	f.auth.AssertExpectations(t)
	f.reports.AssertExpectations(t)
}

var (
	_ ports.TaskService   = (*taskServiceMock)(nil)
	_ ports.ViewService   = (*viewServiceMock)(nil)
	_ ports.AuthService   = (*authServiceMock)(nil)
	_ ports.ReportService = (*reportServiceMock)(nil)
)
