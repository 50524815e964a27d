package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ds-interno/solicitudes-api/internal/models"
)

const solicitudColumns = `codigo_requerimiento, nombre_proyecto, nombre_completo, correo_electronico, correo_jefe_inmediato, prioridad, objetivo_justificacion, descripcion_requerimiento, archivos_adjuntos, estado, fecha_creacion, fecha_actualizacion, fecha_inicio_analisis, responsable_asignado, prioridad_asignada, observaciones_ds`

// SolicitudRepository handles persistence for development requests. Rows are
// inserted by the external intake form; this side only reads and updates.
type SolicitudRepository struct {
	db *sqlx.DB
}

// NewSolicitudRepository instantiates a request repository.
func NewSolicitudRepository(db *sqlx.DB) *SolicitudRepository {
	return &SolicitudRepository{db: db}
}

// ListAll returns every request, newest first.
func (r *SolicitudRepository) ListAll(ctx context.Context) ([]models.Solicitud, error) {
	query := fmt.Sprintf(`SELECT %s FROM solicitudes_desarrollo ORDER BY fecha_creacion DESC`, solicitudColumns)
	var solicitudes []models.Solicitud
	if err := r.db.SelectContext(ctx, &solicitudes, query); err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	return solicitudes, nil
}

// FindByCodigo loads one request by its requirement code.
func (r *SolicitudRepository) FindByCodigo(ctx context.Context, codigo string) (*models.Solicitud, error) {
	query := fmt.Sprintf(`SELECT %s FROM solicitudes_desarrollo WHERE codigo_requerimiento = $1`, solicitudColumns)
	var solicitud models.Solicitud
	if err := r.db.GetContext(ctx, &solicitud, query, codigo); err != nil {
		return nil, err
	}
	return &solicitud, nil
}

// EstadoActual returns only the stored status for a request.
func (r *SolicitudRepository) EstadoActual(ctx context.Context, codigo string) (models.SolicitudEstado, error) {
	const query = `SELECT estado FROM solicitudes_desarrollo WHERE codigo_requerimiento = $1`
	var estado models.SolicitudEstado
	if err := r.db.GetContext(ctx, &estado, query, codigo); err != nil {
		return "", err
	}
	return estado, nil
}

// UpdateEstado overwrites the request status and stamps the update time.
func (r *SolicitudRepository) UpdateEstado(ctx context.Context, codigo string, estado models.SolicitudEstado) error {
	const query = `UPDATE solicitudes_desarrollo SET estado = $1, fecha_actualizacion = $2 WHERE codigo_requerimiento = $3`
	if _, err := r.db.ExecContext(ctx, query, estado, time.Now().UTC(), codigo); err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	return nil
}

// UpdateCampo sets one column on a request. The column name must come from
// the service-side whitelist. When marcarInicioAnalisis is set the analysis
// start date is stamped too, but only if it is still empty.
func (r *SolicitudRepository) UpdateCampo(ctx context.Context, codigo, columna string, valor interface{}, marcarInicioAnalisis bool) error {
	now := time.Now().UTC()

	query := fmt.Sprintf(`UPDATE solicitudes_desarrollo SET %s = $1, fecha_actualizacion = $2 WHERE codigo_requerimiento = $3`, columna)
	args := []interface{}{valor, now, codigo}
	if marcarInicioAnalisis {
		query = fmt.Sprintf(`UPDATE solicitudes_desarrollo SET %s = $1, fecha_actualizacion = $2, fecha_inicio_analisis = COALESCE(fecha_inicio_analisis, $2) WHERE codigo_requerimiento = $3`, columna)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update campo %s: %w", columna, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
