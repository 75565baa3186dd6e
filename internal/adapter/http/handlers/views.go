package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

type ViewHandler struct {
	views ports.ViewService
}

func NewViewHandler(views ports.ViewService) *ViewHandler {
	return &ViewHandler{views: views}
}

func (h *ViewHandler) UpcomingSLA(c *gin.Context) {
	h.list(c, "failed to list upcoming SLA tasks", h.views.UpcomingSLA)
}

func (h *ViewHandler) AtRisk(c *gin.Context) {
	h.list(c, "failed to list at-risk tasks", h.views.AtRisk)
}

func (h *ViewHandler) Recent(c *gin.Context) {
	h.list(c, "failed to list recent tasks", h.views.Recent)
}

func (h *ViewHandler) ByAssignee(c *gin.Context) {
	tasks, err := h.views.ByAssignee(c.Request.Context(), middleware.MustPrincipal(c), c.Param("userId"))
	if err != nil {
		respondError(c, err, "failed to list tasks by assignee", nil)
		return
	}
	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks, h.views, middleware.GetLang(c)))
}

func (h *ViewHandler) Counts(c *gin.Context) {
	counts, err := h.views.Counts(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		respondError(c, err, "failed to count tasks", nil)
		return
	}
	c.JSON(http.StatusOK, mapper.ToTaskCounts(counts))
}

func (h *ViewHandler) State(c *gin.Context) {
	state, err := h.views.State(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		respondError(c, err, "failed to read session state", nil)
		return
	}
	c.JSON(http.StatusOK, mapper.ToSessionState(state))
}

func (h *ViewHandler) list(c *gin.Context, op string, fn func(ctx context.Context, principal domain.Principal) ([]domain.Task, error)) {
	tasks, err := fn(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		respondError(c, err, op, nil)
		return
	}
	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks, h.views, middleware.GetLang(c)))
}
