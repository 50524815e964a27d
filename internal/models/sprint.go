package models

import "time"

// SprintEstado enumerates the sprint lifecycle.
type SprintEstado string

const (
	SprintPlanificado SprintEstado = "planificado"
	SprintActivo      SprintEstado = "activo"
	SprintCompletado  SprintEstado = "completado"
)

// Valid reports whether the value is a known sprint state.
func (e SprintEstado) Valid() bool {
	switch e {
	case SprintPlanificado, SprintActivo, SprintCompletado:
		return true
	}
	return false
}

// Sprint is a named, time-boxed planning period. At most one sprint may be
// activo at any time.
type Sprint struct {
	ID            int64        `db:"id" json:"id"`
	Nombre        string       `db:"nombre" json:"nombre"`
	Objetivo      *string      `db:"objetivo" json:"objetivo"`
	FechaInicio   time.Time    `db:"fecha_inicio" json:"fecha_inicio"`
	FechaFin      time.Time    `db:"fecha_fin" json:"fecha_fin"`
	Estado        SprintEstado `db:"estado" json:"estado"`
	FechaCreacion time.Time    `db:"fecha_creacion" json:"fecha_creacion"`
}

// SprintConTareas augments a sprint with the number of tasks referencing it.
type SprintConTareas struct {
	Sprint
	TareasAsociadas int `db:"tareas_asociadas" json:"tareas_asociadas"`
}
