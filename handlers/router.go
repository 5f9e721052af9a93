package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seating-chart-server-go/logger"
)

// SetupRouter wires every API route onto a new gin engine
func SetupRouter(h *APIHandler, l zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinMiddleware(l))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
	}))

	api := router.Group("/api")
	{
		api.GET("/ping", PingHandler)

		// Class routes
		api.GET("/classes", h.GetAllClasses)
		api.POST("/classes", h.AddClass)
		api.GET("/classes/:classId", h.GetClassByID)
		api.PUT("/classes/:classId", h.SaveClass)
		api.DELETE("/classes/:classId", h.DeleteClass)

		// Student routes within a class
		api.GET("/classes/:classId/students", h.GetStudentsByClass)
		api.GET("/classes/:classId/random-student", h.GetRandomStudent)

		// Layout editing
		api.POST("/classes/:classId/tables", h.AddTable)
		api.POST("/classes/:classId/items/remove", h.RemoveItems)
		api.POST("/classes/:classId/groups", h.GroupTables)
		api.POST("/classes/:classId/groups/ungroup", h.UngroupTables)
		api.POST("/classes/:classId/teacher-desk", h.PlaceTeacherDesk)

		// Seat assignment
		api.POST("/classes/:classId/assign", h.AssignSeats)
		api.POST("/classes/:classId/clear-assignments", h.ClearAssignments)
		api.POST("/assign", h.Assign)

		// Roster import and template
		api.POST("/import/students", h.ImportStudents)
		api.GET("/templates/students", h.GetStudentTemplate)
	}
	return router
}
