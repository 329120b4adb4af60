package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoutineHandler exposes the routine service.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// SaveRoutineRequest is the body of both create and update. Field rules
// (non-empty name, sets and reps) are enforced by the service so that the
// client gets one consistent validation message.
type SaveRoutineRequest struct {
	Name      string            `json:"name"`
	Exercises []domain.Exercise `json:"exercises"`
}

// CreateRoutine godoc
// @Summary Save a new routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body SaveRoutineRequest true "Routine"
// @Success 201 {object} domain.Routine
// @Failure 400 {object} gin.H "Validation error"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.SaveRoutine(commandContext(c), req.Name, req.Exercises)
	if err != nil {
		abortWithServiceError(c, err, "save routine")
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// ListRoutines godoc
// @Summary List routines, newest first
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Routine
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	routines, err := h.routineService.ListRoutines(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "load routines")
		return
	}
	if routines == nil {
		routines = []domain.Routine{}
	}
	c.JSON(http.StatusOK, routines)
}

// UpdateRoutine godoc
// @Summary Overwrite a local routine
// @Tags Routines
// @Accept json
// @Produce json
// @Param id path string true "Routine ID"
// @Param routine body SaveRoutineRequest true "Routine"
// @Success 200 {object} domain.Routine
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Not available in remote mode"
// @Router /routines/{id} [put]
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	var req SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.UpdateRoutine(commandContext(c), c.Param("id"), req.Name, req.Exercises)
	if err != nil {
		abortWithServiceError(c, err, fmt.Sprintf("update routine %s", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine godoc
// @Summary Delete a routine. Unknown ids succeed.
// @Tags Routines
// @Param id path string true "Routine ID"
// @Success 204
// @Router /routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	if err := h.routineService.DeleteRoutine(commandContext(c), c.Param("id")); err != nil {
		abortWithServiceError(c, err, "delete routine")
		return
	}
	c.Status(http.StatusNoContent)
}

// RefreshRoutines godoc
// @Summary Rebuild the local routine cache from the remote store
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Routine
// @Failure 409 {object} gin.H "Not available in local mode"
// @Router /routines/refresh [post]
func (h *RoutineHandler) RefreshRoutines(c *gin.Context) {
	routines, err := h.routineService.RefreshCache(commandContext(c))
	if err != nil {
		abortWithServiceError(c, err, "refresh routines")
		return
	}
	c.JSON(http.StatusOK, routines)
}
