package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/adapter/http/validation"
	"taskflow/internal/adapter/render"
	"taskflow/internal/core/ports"
	"taskflow/pkg/apierrors"
)

type TaskHandler struct {
	tasks   ports.TaskService
	views   ports.ViewService
	minLead time.Duration
}

func NewTaskHandler(tasks ports.TaskService, views ports.ViewService, minLead time.Duration) *TaskHandler {
	return &TaskHandler{tasks: tasks, views: views, minLead: minLead}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	status, err := validation.ParseStatusFilter(c.Query("status"))
	if err != nil {
		respondError(c, err, "invalid status filter", nil)
		return
	}

	tasks, err := h.views.ListTasks(c.Request.Context(), middleware.MustPrincipal(c), status)
	if err != nil {
		respondError(c, err, "failed to list tasks", nil)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks, h.views, middleware.GetLang(c)))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.views.GetTask(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get task", nil)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task, h.views, middleware.GetLang(c)))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		respondError(c, err, "invalid task payload", nil)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), middleware.MustPrincipal(c), input)
	if err != nil {
		respondError(c, err, "failed to create task", h.templateData(c))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task, h.views, middleware.GetLang(c)))
}

// UpdateTask applies a partial update. The body is decoded twice so that
// absent fields can be told apart from explicit nulls.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	var raw map[string]json.RawMessage
	var req dto.UpdateTaskRequest
	if json.Unmarshal(body, &raw) != nil || json.Unmarshal(body, &req) != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		if errors.Is(err, validation.ErrInvalidTaskPayload) {
			badRequest(c, apierrors.MsgInvalidPayload)
			return
		}
		respondError(c, err, "invalid task payload", nil)
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err, "failed to update task", h.templateData(c))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task, h.views, middleware.GetLang(c)))
}

func (h *TaskHandler) AdvanceStatus(c *gin.Context) {
	principal := middleware.MustPrincipal(c)
	task, err := h.tasks.AdvanceStatus(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to advance task status", nil)
		return
	}

	zap.L().Debug("task status advanced", zap.String("task_id", task.ID), zap.String("status", string(task.Status)))
	c.JSON(http.StatusOK, mapper.ToTaskItem(task, h.views, middleware.GetLang(c)))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.tasks.DeleteTask(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete task", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) templateData(c *gin.Context) map[string]interface{} {
	return map[string]interface{}{"MinLead": render.Duration(middleware.GetLang(c), h.minLead)}
}
