package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

func TestStreamHandler_SendsStatePerChange(t *testing.T) {
	f := newFixture()
	changes := make(chan struct{}, 1)
	stopped := make(chan struct{})
	stop := func() { close(stopped) }

	f.views.On("Watch", mock.Anything, alice).Return(changes, stop, nil).Once()
	f.views.On("State", mock.Anything, alice).Return(ports.SessionState{Version: 1}, nil).Once()
	second := make(chan struct{})
	f.views.On("State", mock.Anything, alice).Return(ports.SessionState{Version: 2}, nil).
		Run(func(mock.Arguments) { close(second) }).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/stream?access_token=alice-token", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		f.router.ServeHTTP(rec, req)
		close(done)
	}()

	changes <- struct{}{}
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("change was not streamed")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop")
	}
	<-stopped

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event:state"))
	assert.Contains(t, body, `"version":1`)
	assert.Contains(t, body, `"version":2`)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	f.assertExpectations(t)
}

func TestStreamHandler_WatchFails(t *testing.T) {
	f := newFixture()
	f.views.On("Watch", mock.Anything, alice).Return(nil, nil, domain.Unavailable("subscribe", assert.AnError)).Once()

	rec := f.do(http.MethodGet, "/api/tasks/stream", "alice-token", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	f.assertExpectations(t)
}
