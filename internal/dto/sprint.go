package dto

// CrearSprintRequest is the payload for creating a sprint.
type CrearSprintRequest struct {
	Nombre      string `json:"nombre" validate:"required"`
	Objetivo    string `json:"objetivo"`
	FechaInicio Fecha  `json:"fecha_inicio"`
	FechaFin    Fecha  `json:"fecha_fin"`
	Estado      string `json:"estado"`
}

// ActualizarSprintRequest is the sparse sprint update payload.
type ActualizarSprintRequest struct {
	Nombre      Optional[string] `json:"nombre"`
	Objetivo    Optional[string] `json:"objetivo"`
	FechaInicio Optional[Fecha]  `json:"fecha_inicio"`
	FechaFin    Optional[Fecha]  `json:"fecha_fin"`
	Estado      Optional[string] `json:"estado"`
}

// Empty reports whether the payload carries no field to apply.
func (r ActualizarSprintRequest) Empty() bool {
	return !r.Nombre.Set &&
		!r.Objetivo.Set &&
		!r.FechaInicio.Set &&
		!r.FechaFin.Set &&
		!r.Estado.Set
}
