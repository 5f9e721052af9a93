package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seating-chart-server-go/db"
	"seating-chart-server-go/layout"
	"seating-chart-server-go/models"
	"seating-chart-server-go/roster"
	"seating-chart-server-go/seating"
)

// ClassStore persists classrooms. *db.RedisService implements it.
type ClassStore interface {
	ListClasses(ctx context.Context) ([]models.ClassSummary, error)
	CreateClass(ctx context.Context, name string) (*models.ClassSummary, error)
	GetSettings(ctx context.Context, classID string) (*models.AppSettings, error)
	SaveSettings(ctx context.Context, classID string, settings models.AppSettings) error
	DeleteClass(ctx context.Context, classID string) (bool, error)
	ClassExists(ctx context.Context, classID string) (bool, error)
	GetRandomStudent(ctx context.Context, classID string) (*models.Student, error)
	ImportStudents(ctx context.Context, classID string, file io.Reader, filename string) (int, error)
}

var _ ClassStore = (*db.RedisService)(nil)

var errClassNotFound = errors.New("class not found")

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Store            ClassStore
	Engine           *seating.Engine
	DefaultAlgorithm models.AlgorithmType
	log              zerolog.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(store ClassStore, engine *seating.Engine, defaultAlgorithm models.AlgorithmType, l zerolog.Logger) *APIHandler {
	if engine == nil {
		engine = seating.NewEngine(seating.WithLogger(l))
	}
	if !defaultAlgorithm.Known() {
		defaultAlgorithm = models.AlgorithmRandomized
	}
	return &APIHandler{
		Store:            store,
		Engine:           engine,
		DefaultAlgorithm: defaultAlgorithm,
		log:              l,
	}
}

// respondError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 with fallback as the message.
func (h *APIHandler) respondError(c *gin.Context, err error, fallback string) {
	var missing *roster.MissingColumnsError
	switch {
	case errors.Is(err, errClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, layout.ErrDeskExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, layout.ErrInvalidCapacity),
		errors.Is(err, layout.ErrNothingSelected),
		errors.Is(err, layout.ErrGroupTooSmall),
		errors.Is(err, layout.ErrNotGrouped),
		errors.Is(err, layout.ErrInvalidSettings),
		errors.Is(err, db.ErrClassIDRequired),
		errors.Is(err, db.ErrClassNameRequired),
		errors.Is(err, roster.ErrNoData),
		errors.Is(err, roster.ErrNoSheets),
		errors.Is(err, roster.ErrUnreadable),
		errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// loadClass fetches the settings of the class named in the path
func (h *APIHandler) loadClass(c *gin.Context) (string, *models.AppSettings, error) {
	classID := c.Param("classId")
	settings, err := h.Store.GetSettings(c.Request.Context(), classID)
	if err != nil {
		return classID, nil, err
	}
	if settings == nil {
		return classID, nil, errClassNotFound
	}
	return classID, settings, nil
}

// updateClass loads a class, applies change, saves the result and responds
// with the updated settings
func (h *APIHandler) updateClass(c *gin.Context, status int, change func(*models.AppSettings) error) {
	classID, settings, err := h.loadClass(c)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve class details")
		return
	}
	if err := change(settings); err != nil {
		h.respondError(c, err, "Failed to update class")
		return
	}
	if err := h.Store.SaveSettings(c.Request.Context(), classID, *settings); err != nil {
		h.respondError(c, err, "Failed to save class")
		return
	}
	c.JSON(status, settings)
}

// --- Class Handlers ---

type createClassRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	classes, err := h.Store.ListClasses(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to retrieve classes")
		return
	}
	if classes == nil {
		// Return empty list instead of null for JSON consistency
		classes = []models.ClassSummary{}
	}
	c.JSON(http.StatusOK, classes)
}

// AddClass handles POST /api/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	created, err := h.Store.CreateClass(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err, "Failed to add class")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetClassByID handles GET /api/classes/:classId
func (h *APIHandler) GetClassByID(c *gin.Context) {
	_, settings, err := h.loadClass(c)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve class details")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveClass handles PUT /api/classes/:classId. The whole classroom state is
// replaced; the class is created when it does not exist.
func (h *APIHandler) SaveClass(c *gin.Context) {
	var settings models.AppSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := layout.Validate(settings); err != nil {
		h.respondError(c, err, "Failed to validate class")
		return
	}
	if err := h.Store.SaveSettings(c.Request.Context(), c.Param("classId"), settings); err != nil {
		h.respondError(c, err, "Failed to save class")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// DeleteClass handles DELETE /api/classes/:classId
func (h *APIHandler) DeleteClass(c *gin.Context) {
	deleted, err := h.Store.DeleteClass(c.Request.Context(), c.Param("classId"))
	if err != nil {
		h.respondError(c, err, "Failed to delete class")
		return
	}
	if !deleted {
		h.respondError(c, errClassNotFound, "")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Student Handlers ---

// GetStudentsByClass handles GET /api/classes/:classId/students
func (h *APIHandler) GetStudentsByClass(c *gin.Context) {
	_, settings, err := h.loadClass(c)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve students for the class")
		return
	}
	students := settings.Students
	if students == nil {
		students = []models.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// GetRandomStudent handles GET /api/classes/:classId/random-student
func (h *APIHandler) GetRandomStudent(c *gin.Context) {
	classID := c.Param("classId")
	student, err := h.Store.GetRandomStudent(c.Request.Context(), classID)
	if err != nil {
		h.respondError(c, err, "Failed to get random student")
		return
	}

	if student == nil {
		// Either the class is unknown or its roster is empty
		exists, err := h.Store.ClassExists(c.Request.Context(), classID)
		if err != nil {
			h.respondError(c, err, "Failed to verify class")
			return
		}
		if !exists {
			h.respondError(c, errClassNotFound, "")
		} else {
			c.JSON(http.StatusNotFound, gin.H{"error": "No students found in this class"})
		}
		return
	}

	c.JSON(http.StatusOK, student)
}

// --- Import Handler ---

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	classID := c.PostForm("classId")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'classId' in form data"})
		return
	}

	// "file" is the name attribute in the form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	h.log.Info().Str("file", header.Filename).Str("class_id", classID).Msg("Received roster upload")

	importedCount, err := h.Store.ImportStudents(c.Request.Context(), classID, file, header.Filename)
	if err != nil {
		h.respondError(c, err, "Failed to import students")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": importedCount,
		"classId":       classID,
	})
}

// GetStudentTemplate handles GET /api/templates/students?format=csv|xlsx
func (h *APIHandler) GetStudentTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", roster.FormatXLSX)
	contentType := "text/csv"
	switch format {
	case roster.FormatCSV:
	case roster.FormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+roster.TemplateFilename(format)+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if err := roster.WriteTemplate(c.Writer, format); err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("Failed to write roster template")
		_ = c.Error(err)
	}
}

// --- Ping Handler ---

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
