package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"seating-chart-server-go/layout"
	"seating-chart-server-go/models"
	"seating-chart-server-go/seating"
)

const (
	msgNoStudents = "Please load students first."
	msgNoTables   = "Please add tables/desks to the layout first."
)

type addTableRequest struct {
	Capacity int     `json:"capacity" binding:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type removeItemsRequest struct {
	IDs []string `json:"ids"`
}

type groupRequest struct {
	TableIDs []string `json:"tableIds"`
	Name     string   `json:"name"`
}

type deskRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type assignRequest struct {
	Algorithm models.AlgorithmType `json:"algorithm"`
}

// statelessAssignRequest carries everything an assignment run needs
type statelessAssignRequest struct {
	Students    []models.Student     `json:"students"`
	Tables      []models.Table       `json:"tables"`
	TableGroups []models.TableGroup  `json:"tableGroups"`
	Algorithm   models.AlgorithmType `json:"algorithm"`
}

type assignResponse struct {
	Tables  []models.Table  `json:"tables"`
	Summary seating.Summary `json:"summary"`
}

// --- Layout Handlers ---

// AddTable handles POST /api/classes/:classId/tables
func (h *APIHandler) AddTable(c *gin.Context) {
	var req addTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.updateClass(c, http.StatusCreated, func(s *models.AppSettings) error {
		l, _, err := layout.AddTable(s.ClassroomLayout, req.Capacity, req.X, req.Y)
		s.ClassroomLayout = l
		return err
	})
}

// RemoveItems handles POST /api/classes/:classId/items/remove
func (h *APIHandler) RemoveItems(c *gin.Context) {
	var req removeItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.updateClass(c, http.StatusOK, func(s *models.AppSettings) error {
		l, _, err := layout.RemoveItems(s.ClassroomLayout, req.IDs)
		s.ClassroomLayout = l
		return err
	})
}

// GroupTables handles POST /api/classes/:classId/groups
func (h *APIHandler) GroupTables(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.updateClass(c, http.StatusOK, func(s *models.AppSettings) error {
		l, _, err := layout.GroupTables(s.ClassroomLayout, req.TableIDs, req.Name)
		s.ClassroomLayout = l
		return err
	})
}

// UngroupTables handles POST /api/classes/:classId/groups/ungroup
func (h *APIHandler) UngroupTables(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.updateClass(c, http.StatusOK, func(s *models.AppSettings) error {
		l, _, err := layout.UngroupTables(s.ClassroomLayout, req.TableIDs)
		s.ClassroomLayout = l
		return err
	})
}

// PlaceTeacherDesk handles POST /api/classes/:classId/teacher-desk
func (h *APIHandler) PlaceTeacherDesk(c *gin.Context) {
	var req deskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.updateClass(c, http.StatusCreated, func(s *models.AppSettings) error {
		l, err := layout.PlaceTeacherDesk(s.ClassroomLayout, req.X, req.Y)
		s.ClassroomLayout = l
		return err
	})
}

// --- Assignment Handlers ---

// resolveAlgorithm falls back to the configured default for an empty name.
// Unknown names are passed through; the engine treats them as none.
func (h *APIHandler) resolveAlgorithm(a models.AlgorithmType) models.AlgorithmType {
	if a == "" {
		return h.DefaultAlgorithm
	}
	if !a.Known() {
		h.log.Warn().Str("algorithm", string(a)).Msg("Unknown seating algorithm, using a single random pass")
	}
	return a
}

// AssignSeats handles POST /api/classes/:classId/assign
func (h *APIHandler) AssignSeats(c *gin.Context) {
	var req assignRequest
	// An empty body selects the default algorithm
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	algorithm := h.resolveAlgorithm(req.Algorithm)

	classID, settings, err := h.loadClass(c)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve class details")
		return
	}
	if len(settings.Students) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoStudents})
		return
	}
	if len(settings.Tables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoTables})
		return
	}

	settings.Tables = h.Engine.Assign(settings.Students, settings.Tables, algorithm, settings.TableGroups)
	if err := h.Store.SaveSettings(c.Request.Context(), classID, *settings); err != nil {
		h.respondError(c, err, "Failed to save class")
		return
	}

	summary := seating.Summarize(settings.Students, settings.Tables)
	h.log.Info().Str("class_id", classID).Str("algorithm", string(algorithm)).
		Int("seated", summary.Seated).Int("unseated", len(summary.Unseated)).Msg("Assigned seats")
	c.JSON(http.StatusOK, assignResponse{Tables: settings.Tables, Summary: summary})
}

// ClearAssignments handles POST /api/classes/:classId/clear-assignments
func (h *APIHandler) ClearAssignments(c *gin.Context) {
	h.updateClass(c, http.StatusOK, func(s *models.AppSettings) error {
		s.Tables = layout.ClearAssignments(s.Tables)
		return nil
	})
}

// Assign handles POST /api/assign. Nothing is stored.
func (h *APIHandler) Assign(c *gin.Context) {
	var req statelessAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.Students) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoStudents})
		return
	}
	if len(req.Tables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoTables})
		return
	}

	tables := h.Engine.Assign(req.Students, req.Tables, h.resolveAlgorithm(req.Algorithm), req.TableGroups)
	c.JSON(http.StatusOK, assignResponse{Tables: tables, Summary: seating.Summarize(req.Students, tables)})
}
