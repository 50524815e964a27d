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

const sprintColumns = `id, nombre, objetivo, fecha_inicio, fecha_fin, estado, fecha_creacion`

// SprintRepository handles persistence for sprints.
type SprintRepository struct {
	db *sqlx.DB
}

// NewSprintRepository instantiates a sprint repository.
func NewSprintRepository(db *sqlx.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

// List returns every sprint with its associated-task count, newest first.
func (r *SprintRepository) List(ctx context.Context) ([]models.SprintConTareas, error) {
	const query = `SELECT s.id, s.nombre, s.objetivo, s.fecha_inicio, s.fecha_fin, s.estado, s.fecha_creacion, COUNT(a.id) AS tareas_asociadas
FROM sprints s
LEFT JOIN actividades_ds a ON a.sprint_id = s.id
GROUP BY s.id
ORDER BY s.fecha_creacion DESC`
	var sprints []models.SprintConTareas
	if err := r.db.SelectContext(ctx, &sprints, query); err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	return sprints, nil
}

// FindByID loads a sprint by identifier.
func (r *SprintRepository) FindByID(ctx context.Context, id int64) (*models.Sprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM sprints WHERE id = $1`, sprintColumns)
	var sprint models.Sprint
	if err := r.db.GetContext(ctx, &sprint, query, id); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ExistsByNombre checks if another sprint already carries the name.
func (r *SprintRepository) ExistsByNombre(ctx context.Context, nombre string, excludeID int64) (bool, error) {
	base := `SELECT 1 FROM sprints WHERE nombre = $1`
	args := []interface{}{nombre}
	if excludeID != 0 {
		base += ` AND id <> $2`
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check sprint nombre: %w", err)
	}
	return true, nil
}

// Create inserts a sprint and fills its generated id. An activo sprint is
// inserted inside a transaction that first demotes every other active sprint
// to completado, so the single-active invariant holds across the two writes.
func (r *SprintRepository) Create(ctx context.Context, sprint *models.Sprint) error {
	if sprint.FechaCreacion.IsZero() {
		sprint.FechaCreacion = time.Now().UTC()
	}

	const insert = `INSERT INTO sprints (nombre, objetivo, fecha_inicio, fecha_fin, estado, fecha_creacion)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	if sprint.Estado != models.SprintActivo {
		if err := r.db.GetContext(ctx, &sprint.ID, insert,
			sprint.Nombre, sprint.Objetivo, sprint.FechaInicio, sprint.FechaFin, sprint.Estado, sprint.FechaCreacion,
		); err != nil {
			return fmt.Errorf("create sprint: %w", err)
		}
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create sprint tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE sprints SET estado = $1 WHERE estado = $2`, models.SprintCompletado, models.SprintActivo); err != nil {
		return fmt.Errorf("demote active sprints: %w", err)
	}

	if err = tx.GetContext(ctx, &sprint.ID, insert,
		sprint.Nombre, sprint.Objetivo, sprint.FechaInicio, sprint.FechaFin, sprint.Estado, sprint.FechaCreacion,
	); err != nil {
		return fmt.Errorf("create sprint: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create sprint tx: %w", err)
	}
	return nil
}

// Update applies the provided column/value pairs to one sprint. Column names
// must come from the service-side whitelist.
func (r *SprintRepository) Update(ctx context.Context, id int64, cambios map[string]interface{}) error {
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

	query := fmt.Sprintf(`UPDATE sprints SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sprint: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Activar marks the sprint as activo and demotes the rest to completado in
// one transaction.
func (r *SprintRepository) Activar(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activar tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE sprints SET estado = $1 WHERE estado = $2 AND id <> $3`, models.SprintCompletado, models.SprintActivo, id); err != nil {
		return fmt.Errorf("demote active sprints: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE sprints SET estado = $1 WHERE id = $2`, models.SprintActivo, id); err != nil {
		return fmt.Errorf("activate sprint: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit activar tx: %w", err)
	}
	return nil
}

// Delete removes a sprint permanently.
func (r *SprintRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sprint: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountTareas returns the number of tasks referencing the sprint.
func (r *SprintRepository) CountTareas(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(*) FROM actividades_ds WHERE sprint_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count sprint tareas: %w", err)
	}
	return count, nil
}
