package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ds-interno/solicitudes-api/internal/dto"
	"github.com/ds-interno/solicitudes-api/internal/service"
	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
	"github.com/ds-interno/solicitudes-api/pkg/response"
)

// ActividadHandler exposes board task endpoints.
type ActividadHandler struct {
	service *service.ActividadService
}

// NewActividadHandler constructs a task handler.
func NewActividadHandler(svc *service.ActividadService) *ActividadHandler {
	return &ActividadHandler{service: svc}
}

// Create godoc
// @Summary Create a board task
// @Tags Actividades
// @Accept json
// @Produce json
// @Param payload body dto.CrearActividadRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /actividades/add [post]
func (h *ActividadHandler) Create(c *gin.Context) {
	var req dto.CrearActividadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actividad, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, actividad)
}

// Update godoc
// @Summary Patch a board task
// @Description Applies only the fields present in the payload; status moves re-derive the parent request state.
// @Tags Actividades
// @Accept json
// @Produce json
// @Param payload body dto.ActualizarActividadRequest true "Sparse task update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /actividades/update-status [put]
func (h *ActividadHandler) Update(c *gin.Context) {
	var req dto.ActualizarActividadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actividad, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, actividad)
}

// Delete godoc
// @Summary Delete a board task
// @Tags Actividades
// @Produce json
// @Param taskId path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /actividades/{taskId} [delete]
func (h *ActividadHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "taskId must be a positive integer"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nil, "Tarea eliminada.")
}
