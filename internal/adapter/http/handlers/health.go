package handlers

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/adapter/http/middleware"
)

const (
	StatusOk          = "ok"
	StatusDown        = "down"
	healthPingTimeout = 2 * time.Second
)

// Pinger is satisfied by *sqlx.DB through PingContext and by the redis
// adapter's ping func.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type SessionCounter interface {
	Len() int
}

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Mysql string `json:"mysql"`
	Redis string `json:"redis"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	ActiveSessions    int            `json:"active_sessions"`
	Status            HealthServices `json:"status"`
}

type HealthHandler struct {
	db       Pinger
	redis    Pinger
	sessions SessionCounter
}

func NewHealthHandler(db Pinger, redis Pinger, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, sessions: sessions}
}

// CheckHealth reports down when MySQL is unreachable. Redis only carries
// change notifications, so its loss degrades freshness but not service.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx := c.Request.Context()
	statusCode := 200
	message := StatusOk

	if !ping(ctx, h.db) {
		statusCode = 500
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	ctx := c.Request.Context()

	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Len()
	}

	c.JSON(200, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		ActiveSessions:    sessions,
		Status: HealthServices{
			Mysql: status(ping(ctx, h.db)),
			Redis: status(ping(ctx, h.redis)),
		},
	})
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return p.PingContext(timeoutCtx) == nil
}

func status(ok bool) string {
	if ok {
		return StatusOk
	}
	return StatusDown
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
