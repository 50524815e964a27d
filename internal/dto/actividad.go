package dto

// CrearActividadRequest is the payload for adding a Kanban task. Only the
// name is mandatory; the task always starts in Por Hacer no matter what the
// caller sends.
type CrearActividadRequest struct {
	SolicitudCodigo string    `json:"solicitud_codigo"`
	NombreActividad string    `json:"nombre_actividad" validate:"required"`
	Descripcion     string    `json:"descripcion"`
	ResponsableDS   string    `json:"responsable_ds"`
	Prioridad       string    `json:"prioridad"`
	FechaLimite     Fecha     `json:"fecha_limite"`
	Categoria       string    `json:"categoria"`
	SprintID        FlexInt64 `json:"sprint_id"`
}

// ActualizarActividadRequest is the sparse task update payload. Every field
// other than taskId is tri-state: absent keys leave the column untouched,
// present-empty keys clear it.
type ActualizarActividadRequest struct {
	TaskID          int64               `json:"taskId"`
	NewStatus       Optional[string]    `json:"newStatus"`
	NombreActividad Optional[string]    `json:"nombre_actividad"`
	Descripcion     Optional[string]    `json:"descripcion"`
	ResponsableDS   Optional[string]    `json:"responsable_ds"`
	Prioridad       Optional[string]    `json:"prioridad"`
	FechaLimite     Optional[Fecha]     `json:"fecha_limite"`
	Categoria       Optional[string]    `json:"categoria"`
	SprintID        Optional[FlexInt64] `json:"sprint_id"`
}

// Empty reports whether the payload carries no field to apply.
func (r ActualizarActividadRequest) Empty() bool {
	return !r.NewStatus.Set &&
		!r.NombreActividad.Set &&
		!r.Descripcion.Set &&
		!r.ResponsableDS.Set &&
		!r.Prioridad.Set &&
		!r.FechaLimite.Set &&
		!r.Categoria.Set &&
		!r.SprintID.Set
}
