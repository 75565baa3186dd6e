package tests

// Mock generation for handler tests. The hand-written mocks in mocks_test.go
// follow the same shape.
//
// Usage:
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_service_mock.go --with-expecter
//go:generate mockery --name ViewService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename view_service_mock.go --with-expecter
//go:generate mockery --name AuthService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename auth_service_mock.go --with-expecter
//go:generate mockery --name ReportService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename report_service_mock.go --with-expecter
