package dto

import (
	"github.com/ds-interno/solicitudes-api/internal/models"
)

// NotificarRequest carries the freshly-inserted request plus the supervisor
// addresses the approval mail goes to.
type NotificarRequest struct {
	Solicitud     models.Solicitud `json:"solicitud"`
	Destinatarios []string         `json:"destinatarios" validate:"required,min=1"`
}

// ActualizarCampoRequest sets a single management field on a request by code.
type ActualizarCampoRequest struct {
	CodigoRequerimiento string `json:"codigo_requerimiento" validate:"required"`
	Campo               string `json:"campo" validate:"required"`
	Valor               string `json:"valor"`
}

// Dashboard is the aggregate payload the board loads in one call.
type Dashboard struct {
	Solicitudes []models.Solicitud          `json:"solicitudes"`
	Actividades []models.ActividadConSprint `json:"actividades"`
	Sprints     []models.SprintConTareas    `json:"sprints"`
}

// Progreso summarizes task completion for one request.
type Progreso struct {
	CodigoRequerimiento string  `json:"codigo_requerimiento"`
	Total               int     `json:"total"`
	PorHacer            int     `json:"por_hacer"`
	EnCurso             int     `json:"en_curso"`
	Revision            int     `json:"revision"`
	Terminadas          int     `json:"terminadas"`
	Porcentaje          float64 `json:"porcentaje"`
}
