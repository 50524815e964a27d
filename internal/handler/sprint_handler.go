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

// SprintHandler exposes sprint endpoints.
type SprintHandler struct {
	service *service.SprintService
}

// NewSprintHandler constructs a sprint handler.
func NewSprintHandler(svc *service.SprintService) *SprintHandler {
	return &SprintHandler{service: svc}
}

func sprintID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}

// List godoc
// @Summary List sprints with associated task counts
// @Tags Sprints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sprints [get]
func (h *SprintHandler) List(c *gin.Context) {
	sprints, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sprints)
}

// Get godoc
// @Summary Get one sprint
// @Tags Sprints
// @Produce json
// @Param id path int true "Sprint ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sprints/{id} [get]
func (h *SprintHandler) Get(c *gin.Context) {
	id, err := sprintID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sprint, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sprint)
}

// Create godoc
// @Summary Create a sprint
// @Description Creating a sprint as activo demotes any other active sprint in the same transaction.
// @Tags Sprints
// @Accept json
// @Produce json
// @Param payload body dto.CrearSprintRequest true "Sprint payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sprints [post]
func (h *SprintHandler) Create(c *gin.Context) {
	var req dto.CrearSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sprint, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sprint)
}

// Update godoc
// @Summary Patch a sprint
// @Tags Sprints
// @Accept json
// @Produce json
// @Param id path int true "Sprint ID"
// @Param payload body dto.ActualizarSprintRequest true "Sparse sprint update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sprints/{id} [put]
func (h *SprintHandler) Update(c *gin.Context) {
	id, err := sprintID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ActualizarSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sprint, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sprint)
}

// Delete godoc
// @Summary Delete a sprint
// @Description Refused while tasks are still assigned to the sprint.
// @Tags Sprints
// @Produce json
// @Param id path int true "Sprint ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sprints/{id} [delete]
func (h *SprintHandler) Delete(c *gin.Context) {
	id, err := sprintID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nil, "Sprint eliminado.")
}
