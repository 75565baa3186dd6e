package service_test

import (
	"context"
	"time"

	"taskflow/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

var (
	now   = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	admin = domain.Principal{ID: "admin-1", DisplayName: "Ada Admin", Role: domain.RoleAdmin}
	alice = domain.Principal{ID: "u-alice", DisplayName: "Alice", Role: domain.RoleUser}
	bob   = domain.Principal{ID: "u-bob", DisplayName: "Bob", Role: domain.RoleUser}
)

func clock() time.Time { return now }

type directory map[string]domain.User

func newDirectory() directory {
	return directory{
		admin.ID: {ID: admin.ID, DisplayName: admin.DisplayName, Role: domain.RoleAdmin},
		alice.ID: {ID: alice.ID, DisplayName: alice.DisplayName, Role: domain.RoleUser},
		bob.ID:   {ID: bob.ID, DisplayName: bob.DisplayName, Role: domain.RoleUser},
	}
}

func (d directory) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(d))
	for _, u := range d {
		out = append(out, u)
	}
	return out, nil
}

func (d directory) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, ok := d[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type MockPatcher struct {
	mock.Mock
}

func (m *MockPatcher) PatchUpsert(task domain.Task) {
	m.Called(task)
}

func (m *MockPatcher) PatchDelete(id string) {
	m.Called(id)
}

type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) Put(ctx context.Context, report domain.TaskReport, payload []byte) (string, error) {
	args := m.Called(ctx, report, payload)
	return args.String(0), args.Error(1)
}

func (m *MockReportStore) Get(ctx context.Context, id string) (domain.TaskReport, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.TaskReport), args.Error(1)
}

func (m *MockReportStore) ListByCreator(ctx context.Context, userID string) ([]domain.TaskReport, error) {
	args := m.Called(ctx, userID)
	var reports []domain.TaskReport
	if v := args.Get(0); v != nil {
		reports = v.([]domain.TaskReport)
	}
	return reports, args.Error(1)
}

func (m *MockReportStore) Payload(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	var payload []byte
	if v := args.Get(0); v != nil {
		payload = v.([]byte)
	}
	return payload, args.Error(1)
}

func (m *MockReportStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, task domain.Task, lang string) ([]byte, error) {
	args := m.Called(ctx, task, lang)
	var payload []byte
	if v := args.Get(0); v != nil {
		payload = v.([]byte)
	}
	return payload, args.Error(1)
}

func (m *MockRenderer) ContentType() string {
	return m.Called().String(0)
}

func record(id, assignee string, status domain.TaskStatus, deadline time.Duration) domain.TaskRecord {
	created := now.Add(-48 * time.Hour)
	return domain.TaskRecord{
		ID:            id,
		Title:         "task " + id,
		Description:   "describe " + id,
		AssignedTo:    assignee,
		CreatedBy:     admin.ID,
		CreatedByName: admin.DisplayName,
		Status:        string(status),
		SLADeadline:   now.Add(deadline),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func ptr[T any](v T) *T { return &v }
