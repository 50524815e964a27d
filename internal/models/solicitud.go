package models

import "time"

// Prioridad is the shared Alta/Media/Baja ordering used by requests and tasks.
type Prioridad string

const (
	PrioridadAlta  Prioridad = "Alta"
	PrioridadMedia Prioridad = "Media"
	PrioridadBaja  Prioridad = "Baja"
)

// SolicitudEstado enumerates the lifecycle states of a development request.
// The approval flow writes the coarse human-driven states; the synchronizer
// writes the task-derived ones. Both target the same column, last write wins.
type SolicitudEstado string

const (
	EstadoPendienteAprobacion SolicitudEstado = "Pendiente de Aprobación"
	EstadoAprobadaPendiente   SolicitudEstado = "Aprobada - Pendiente de Análisis"
	EstadoRechazada           SolicitudEstado = "Rechazada"
	EstadoEnAnalisis          SolicitudEstado = "En Análisis"
	EstadoEnDesarrollo        SolicitudEstado = "En Desarrollo"
	EstadoEnSoporte           SolicitudEstado = "En Soporte"
	EstadoCompletado          SolicitudEstado = "Completado"
)

// ArchivoAdjunto is one attachment reference carried by a request.
type ArchivoAdjunto struct {
	URL    string `json:"url"`
	Nombre string `json:"nombre"`
}

// Solicitud models a development request. Rows are created by the external
// intake form; codigo_requerimiento is unique and immutable once assigned.
type Solicitud struct {
	CodigoRequerimiento      string          `db:"codigo_requerimiento" json:"codigo_requerimiento"`
	NombreProyecto           string          `db:"nombre_proyecto" json:"nombre_proyecto"`
	NombreCompleto           string          `db:"nombre_completo" json:"nombre_completo"`
	CorreoElectronico        string          `db:"correo_electronico" json:"correo_electronico"`
	CorreoJefeInmediato      string          `db:"correo_jefe_inmediato" json:"correo_jefe_inmediato"`
	Prioridad                Prioridad       `db:"prioridad" json:"prioridad"`
	ObjetivoJustificacion    string          `db:"objetivo_justificacion" json:"objetivo_justificacion"`
	DescripcionRequerimiento string          `db:"descripcion_requerimiento" json:"descripcion_requerimiento"`
	ArchivosAdjuntos         *string         `db:"archivos_adjuntos" json:"archivos_adjuntos"`
	Estado                   SolicitudEstado `db:"estado" json:"estado"`
	FechaCreacion            time.Time       `db:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion       *time.Time      `db:"fecha_actualizacion" json:"fecha_actualizacion"`
	FechaInicioAnalisis      *time.Time      `db:"fecha_inicio_analisis" json:"fecha_inicio_analisis"`
	ResponsableAsignado      *string         `db:"responsable_asignado" json:"responsable_asignado"`
	PrioridadAsignada        *string         `db:"prioridad_asignada" json:"prioridad_asignada"`
	ObservacionesDS          *string         `db:"observaciones_ds" json:"observaciones_ds"`
}
