package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/adapter/http/handlers"
	"taskflow/internal/adapter/http/middleware"
)

type sessionCount int

func (s sessionCount) Len() int { return int(s) }

func healthRouter(db, redis handlers.Pinger) *gin.Engine {
	h := handlers.NewHealthHandler(db, redis, sessionCount(3))
	r := gin.New()
	r.Use(middleware.LanguageMiddleware())
	r.GET("/api/health", h.CheckHealth)
	r.GET("/api/health/report", h.CheckHealthReport)
	return r
}

var (
	up   = handlers.PingFunc(func(context.Context) error { return nil })
	down = handlers.PingFunc(func(context.Context) error { return errors.New("refused") })
)

func TestHealthHandler_CheckHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(up, down).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got handlers.HealthBasic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, handlers.StatusOk, got.Message)

	rec = httptest.NewRecorder()
	healthRouter(down, up).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthHandler_Report(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health/report", nil)
	req.Header.Set("Accept-Language", "fr")
	rec := httptest.NewRecorder()
	healthRouter(up, down).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got handlers.HealthAdvanced
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "fr", got.Language)
	assert.Equal(t, 3, got.ActiveSessions)
	assert.Equal(t, handlers.HealthServices{Mysql: handlers.StatusOk, Redis: handlers.StatusDown}, got.Status)
}
