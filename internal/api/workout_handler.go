package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler exposes workout history and its export.
type WorkoutHandler struct {
	historyService service.HistoryService
	exportService  service.ExportService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(historyService service.HistoryService, exportService service.ExportService) *WorkoutHandler {
	return &WorkoutHandler{historyService: historyService, exportService: exportService}
}

// RecordWorkoutRequest is a finished live session. An empty routineName
// records a free workout.
type RecordWorkoutRequest struct {
	RoutineName     string                     `json:"routineName"`
	DurationSeconds int64                      `json:"durationSeconds"`
	Exercises       []domain.CompletedExercise `json:"exercises"`
}

// RecordWorkout godoc
// @Summary Record a completed workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body RecordWorkoutRequest true "Completed session"
// @Success 201 {object} domain.WorkoutHistoryEntry
// @Failure 400 {object} gin.H "Validation error"
// @Failure 500 {object} gin.H "Nothing was saved"
// @Router /workouts [post]
func (h *WorkoutHandler) RecordWorkout(c *gin.Context) {
	var req RecordWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry, err := h.historyService.RecordCompletedWorkout(commandContext(c), req.RoutineName, req.DurationSeconds, req.Exercises)
	if err != nil {
		abortWithServiceError(c, err, "save workout")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetWorkoutHistory godoc
// @Summary List finished workouts, newest first
// @Tags Workouts
// @Produce json
// @Success 200 {array} domain.WorkoutHistoryEntry
// @Router /workouts [get]
func (h *WorkoutHandler) GetWorkoutHistory(c *gin.Context) {
	entries, err := h.historyService.GetWorkoutHistory(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "load workout history")
		return
	}
	if entries == nil {
		entries = []domain.WorkoutHistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// GetWorkoutDetail godoc
// @Summary Get one workout with its exercises and sets
// @Tags Workouts
// @Produce json
// @Param id path int true "Workout ID"
// @Success 200 {object} domain.WorkoutDetail
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkoutDetail(c *gin.Context) {
	id, ok := parseWorkoutID(c)
	if !ok {
		return
	}
	detail, err := h.historyService.GetWorkoutDetail(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err, "load workout")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteWorkout godoc
// @Summary Delete a workout and everything recorded under it
// @Tags Workouts
// @Param id path int true "Workout ID"
// @Success 204
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseWorkoutID(c)
	if !ok {
		return
	}
	if err := h.historyService.DeleteWorkout(commandContext(c), id); err != nil {
		abortWithServiceError(c, err, "delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportHistory godoc
// @Summary Export the full history to object storage
// @Tags Workouts
// @Produce json
// @Success 201 {object} service.ExportResult
// @Failure 503 {object} gin.H "Export not configured"
// @Router /workouts/export [post]
func (h *WorkoutHandler) ExportHistory(c *gin.Context) {
	res, err := h.exportService.ExportHistory(commandContext(c))
	if err != nil {
		abortWithServiceError(c, err, "export workout history")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func parseWorkoutID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return 0, false
	}
	return id, true
}
