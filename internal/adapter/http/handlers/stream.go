package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/pkg/apierrors"
)

const DefaultHeartbeat = 25 * time.Second

// StreamHandler pushes one server-sent "state" event per projection change.
// Events carry the version and counts only; clients re-read the views.
type StreamHandler struct {
	views     ports.ViewService
	heartbeat time.Duration
}

func NewStreamHandler(views ports.ViewService, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &StreamHandler{views: views, heartbeat: heartbeat}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	principal := middleware.MustPrincipal(c)

	changes, stop, err := h.views.Watch(ctx, principal)
	if err != nil {
		respondError(c, err, "failed to open task stream", nil)
		return
	}
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	h.sendState(c, principal)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			h.sendState(c, principal)
		case now := <-ticker.C:
			c.SSEvent("ping", now.UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}

func (h *StreamHandler) sendState(c *gin.Context, principal domain.Principal) {
	state, err := h.views.State(c.Request.Context(), principal)
	if err != nil {
		code, msgKey := classify(err)
		zap.L().Warn("task stream state unavailable", zap.String("principal", principal.ID), zap.Error(err))
		c.SSEvent("error", apierrors.CreateError(code, msgKey, middleware.GetLang(c)))
	} else {
		c.SSEvent("state", mapper.ToSessionState(state))
	}
	c.Writer.Flush()
}
