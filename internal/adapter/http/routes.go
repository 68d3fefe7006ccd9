package http

import (
	"github.com/gin-gonic/gin"

	"taskforge/internal/adapter/http/handlers"
	"taskforge/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks/stats", taskHandler.GetStats)
		api.GET("/tasks/export", taskHandler.ExportTasks)
		api.POST("/tasks/import", taskHandler.ImportTasks)
		api.POST("/tasks/delete", taskHandler.DeleteTasks)
		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PATCH("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
		api.POST("/tasks/:id/complete", taskHandler.CompleteTask)
		api.POST("/tasks/:id/duplicate", taskHandler.DuplicateTask)
	}
}
