package models

import "time"

// ActividadEstado enumerates Kanban columns. Board moves are free-form, so
// any state is reachable from any other.
type ActividadEstado string

const (
	ActividadPorHacer  ActividadEstado = "Por Hacer"
	ActividadEnCurso   ActividadEstado = "En Curso"
	ActividadRevision  ActividadEstado = "Revisión"
	ActividadTerminado ActividadEstado = "Terminado"
)

// Valid reports whether the value is a known board column.
func (e ActividadEstado) Valid() bool {
	switch e {
	case ActividadPorHacer, ActividadEnCurso, ActividadRevision, ActividadTerminado:
		return true
	}
	return false
}

// EnMarcha reports whether the task is actively being worked (in progress or
// under review).
func (e ActividadEstado) EnMarcha() bool {
	return e == ActividadEnCurso || e == ActividadRevision
}

// ActividadCategoria classifies a task as development, support or change work.
type ActividadCategoria string

const (
	CategoriaDesarrollo ActividadCategoria = "desarrollo"
	CategoriaSoporte    ActividadCategoria = "soporte"
	CategoriaCambio     ActividadCategoria = "cambio"
)

// Valid reports whether the value is a known category.
func (c ActividadCategoria) Valid() bool {
	switch c {
	case CategoriaDesarrollo, CategoriaSoporte, CategoriaCambio:
		return true
	}
	return false
}

// EsSoporte reports whether the category counts as support/change work for
// the status roll-up. Everything else is primary development work.
func (c ActividadCategoria) EsSoporte() bool {
	return c == CategoriaSoporte || c == CategoriaCambio
}

// Actividad is one unit of Kanban-tracked work, optionally linked to a
// request by code and to a sprint by id.
type Actividad struct {
	ID              int64              `db:"id" json:"id"`
	SolicitudCodigo *string            `db:"solicitud_codigo" json:"solicitud_codigo"`
	NombreActividad string             `db:"nombre_actividad" json:"nombre_actividad"`
	Descripcion     *string            `db:"descripcion" json:"descripcion"`
	ResponsableDS   *string            `db:"responsable_ds" json:"responsable_ds"`
	Prioridad       Prioridad          `db:"prioridad" json:"prioridad"`
	FechaLimite     *time.Time         `db:"fecha_limite" json:"fecha_limite"`
	Categoria       ActividadCategoria `db:"categoria" json:"categoria"`
	SprintID        *int64             `db:"sprint_id" json:"sprint_id"`
	Estado          ActividadEstado    `db:"estado_actividad" json:"estado_actividad"`
	FechaCreacion   time.Time          `db:"fecha_creacion" json:"fecha_creacion"`
}

// ActividadConSprint augments a task with its sprint's name for board views.
type ActividadConSprint struct {
	Actividad
	SprintNombre *string `db:"sprint_nombre" json:"sprint_nombre"`
}
