package http

import (
	"taskflow/internal/adapter/http/handlers"
	"taskflow/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Tasks   *handlers.TaskHandler
	Views   *handlers.ViewHandler
	Stream  *handlers.StreamHandler
	Reports *handlers.ReportHandler
}

// RegisterRoutes mounts the API under /api. Everything but health, login and
// registration requires a bearer token; writes are rate limited per caller.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens middleware.TokenParser, limiter *middleware.RateLimiter) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
		api.POST("/auth/login", limiter.Middleware(), h.Auth.Login)
		api.POST("/auth/register", limiter.Middleware(), h.Auth.Register)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(tokens))
	{
		authed.GET("/auth/me", h.Auth.Me)
		authed.GET("/users", h.Auth.ListUsers)
		authed.PUT("/users/:id/role", limiter.Middleware(), h.Auth.UpdateUserRole)

		authed.GET("/tasks", h.Tasks.ListTasks)
		authed.GET("/tasks/stream", h.Stream.Stream)
		authed.GET("/tasks/:id", h.Tasks.GetTask)
		authed.POST("/tasks", limiter.Middleware(), h.Tasks.CreateTask)
		authed.PATCH("/tasks/:id", limiter.Middleware(), h.Tasks.UpdateTask)
		authed.POST("/tasks/:id/advance", limiter.Middleware(), h.Tasks.AdvanceStatus)
		authed.DELETE("/tasks/:id", limiter.Middleware(), h.Tasks.DeleteTask)

		authed.GET("/views/upcoming-sla", h.Views.UpcomingSLA)
		authed.GET("/views/at-risk", h.Views.AtRisk)
		authed.GET("/views/recent", h.Views.Recent)
		authed.GET("/views/assignee/:userId", h.Views.ByAssignee)
		authed.GET("/views/counts", h.Views.Counts)
		authed.GET("/views/state", h.Views.State)

		authed.POST("/reports", limiter.Middleware(), h.Reports.GenerateReport)
		authed.GET("/reports", h.Reports.ListReports)
		authed.GET("/reports/:id", h.Reports.ReportDocument)
		authed.DELETE("/reports/:id", limiter.Middleware(), h.Reports.DeleteReport)
	}
}
