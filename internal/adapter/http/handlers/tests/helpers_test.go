package tests

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskflow/internal/core/domain"
	"taskflow/pkg/apierrors"
)

func (f *fixture) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rec.Code, got.ErrDetails.Code)
	return got.ErrDetails
}

func sampleTask(id string, status domain.TaskStatus, deadline time.Time) domain.Task {
	return domain.Task{
		ID:             id,
		Title:          "Replace router " + id,
		Description:    "Lobby router is flaky.",
		AssignedTo:     alice.ID,
		AssignedToName: alice.DisplayName,
		CreatedBy:      admin.ID,
		CreatedByName:  admin.DisplayName,
		Status:         status,
		SLADeadline:    deadline,
		CreatedAt:      now.Add(-48 * time.Hour),
		UpdatedAt:      now.Add(-time.Hour),
	}
}

