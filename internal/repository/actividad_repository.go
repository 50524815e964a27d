package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ds-interno/solicitudes-api/internal/models"
)

const actividadColumns = `id, solicitud_codigo, nombre_actividad, descripcion, responsable_ds, prioridad, fecha_limite, categoria, sprint_id, estado_actividad, fecha_creacion`

// ActividadRepository handles persistence for Kanban tasks.
type ActividadRepository struct {
	db *sqlx.DB
}

// NewActividadRepository instantiates a task repository.
func NewActividadRepository(db *sqlx.DB) *ActividadRepository {
	return &ActividadRepository{db: db}
}

// Create inserts a task and fills its generated id and creation time.
func (r *ActividadRepository) Create(ctx context.Context, actividad *models.Actividad) error {
	if actividad.FechaCreacion.IsZero() {
		actividad.FechaCreacion = time.Now().UTC()
	}

	const query = `INSERT INTO actividades_ds (solicitud_codigo, nombre_actividad, descripcion, responsable_ds, prioridad, fecha_limite, categoria, sprint_id, estado_actividad, fecha_creacion)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.GetContext(ctx, &actividad.ID, query,
		actividad.SolicitudCodigo,
		actividad.NombreActividad,
		actividad.Descripcion,
		actividad.ResponsableDS,
		actividad.Prioridad,
		actividad.FechaLimite,
		actividad.Categoria,
		actividad.SprintID,
		actividad.Estado,
		actividad.FechaCreacion,
	); err != nil {
		return fmt.Errorf("create actividad: %w", err)
	}
	return nil
}

// FindByID loads a task by identifier.
func (r *ActividadRepository) FindByID(ctx context.Context, id int64) (*models.Actividad, error) {
	query := fmt.Sprintf(`SELECT %s FROM actividades_ds WHERE id = $1`, actividadColumns)
	var actividad models.Actividad
	if err := r.db.GetContext(ctx, &actividad, query, id); err != nil {
		return nil, err
	}
	return &actividad, nil
}

// ListBySolicitud returns every task linked to the given requirement code.
func (r *ActividadRepository) ListBySolicitud(ctx context.Context, codigo string) ([]models.Actividad, error) {
	query := fmt.Sprintf(`SELECT %s FROM actividades_ds WHERE solicitud_codigo = $1 ORDER BY fecha_creacion ASC`, actividadColumns)
	var actividades []models.Actividad
	if err := r.db.SelectContext(ctx, &actividades, query, codigo); err != nil {
		return nil, fmt.Errorf("list actividades by solicitud: %w", err)
	}
	return actividades, nil
}

// ListAllConSprint returns every task joined with its sprint name, oldest
// first (board column ordering).
func (r *ActividadRepository) ListAllConSprint(ctx context.Context) ([]models.ActividadConSprint, error) {
	const query = `SELECT a.id, a.solicitud_codigo, a.nombre_actividad, a.descripcion, a.responsable_ds, a.prioridad, a.fecha_limite, a.categoria, a.sprint_id, a.estado_actividad, a.fecha_creacion, s.nombre AS sprint_nombre
FROM actividades_ds a
LEFT JOIN sprints s ON s.id = a.sprint_id
ORDER BY a.fecha_creacion ASC`
	var actividades []models.ActividadConSprint
	if err := r.db.SelectContext(ctx, &actividades, query); err != nil {
		return nil, fmt.Errorf("list actividades: %w", err)
	}
	return actividades, nil
}

// Update applies the provided column/value pairs to one task. Column names
// must come from the service-side whitelist; values may be nil to clear a
// column. Columns are applied in sorted order so generated SQL is stable.
func (r *ActividadRepository) Update(ctx context.Context, id int64, cambios map[string]interface{}) error {
	if len(cambios) == 0 {
		return nil
	}

	columnas := make([]string, 0, len(cambios))
	for columna := range cambios {
		columnas = append(columnas, columna)
	}
	sort.Strings(columnas)

	sets := make([]string, 0, len(columnas))
	args := make([]interface{}, 0, len(columnas)+1)
	for i, columna := range columnas {
		sets = append(sets, fmt.Sprintf("%s = $%d", columna, i+1))
		args = append(args, cambios[columna])
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE actividades_ds SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update actividad: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a task permanently.
func (r *ActividadRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actividades_ds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete actividad: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
