package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ds-interno/solicitudes-api/internal/dto"
	"github.com/ds-interno/solicitudes-api/internal/models"
	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
)

type sprintRepository interface {
	List(ctx context.Context) ([]models.SprintConTareas, error)
	FindByID(ctx context.Context, id int64) (*models.Sprint, error)
	ExistsByNombre(ctx context.Context, nombre string, excludeID int64) (bool, error)
	Create(ctx context.Context, sprint *models.Sprint) error
	Update(ctx context.Context, id int64, cambios map[string]interface{}) error
	Activar(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CountTareas(ctx context.Context, id int64) (int, error)
}

// SprintService enforces the sprint lifecycle rules.
type SprintService struct {
	repo      sprintRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSprintService creates a new sprint service instance.
func NewSprintService(repo sprintRepository, validate *validator.Validate, logger *zap.Logger) *SprintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SprintService{repo: repo, validator: validate, logger: logger}
}

// List returns every sprint with its task count, newest first.
func (s *SprintService) List(ctx context.Context) ([]models.SprintConTareas, error) {
	sprints, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sprints")
	}
	return sprints, nil
}

// Get returns a sprint by ID.
func (s *SprintService) Get(ctx context.Context, id int64) (*models.Sprint, error) {
	sprint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sprint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sprint")
	}
	return sprint, nil
}

// Create adds a sprint ensuring name uniqueness, date ordering and the
// single-active invariant.
func (s *SprintService) Create(ctx context.Context, req dto.CrearSprintRequest) (*models.Sprint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sprint payload")
	}

	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nombre is required")
	}
	if !req.FechaInicio.Valid || !req.FechaFin.Valid {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_inicio and fecha_fin are required")
	}
	if !req.FechaFin.Time.After(req.FechaInicio.Time) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin must be after fecha_inicio")
	}

	estado := models.SprintEstado(strings.TrimSpace(req.Estado))
	if estado == "" {
		estado = models.SprintPlanificado
	}
	if !estado.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("estado %q is not a valid sprint state", req.Estado))
	}

	exists, err := s.repo.ExistsByNombre(ctx, nombre, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sprint nombre")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("a sprint named %q already exists", nombre))
	}

	sprint := &models.Sprint{
		Nombre:      nombre,
		Objetivo:    trimToNil(req.Objetivo),
		FechaInicio: req.FechaInicio.Time,
		FechaFin:    req.FechaFin.Time,
		Estado:      estado,
	}

	if err := s.repo.Create(ctx, sprint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sprint")
	}
	return sprint, nil
}

// Update applies a sparse change set to a sprint, re-validating the
// effective date pair and honoring the single-active invariant.
func (s *SprintService) Update(ctx context.Context, id int64, req dto.ActualizarSprintRequest) (*models.Sprint, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields provided to update")
	}

	sprint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sprint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sprint")
	}

	cambios := map[string]interface{}{}

	if req.Nombre.Set {
		nombre := ""
		if req.Nombre.Valid {
			nombre = strings.TrimSpace(req.Nombre.Value)
		}
		if nombre == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "nombre cannot be empty")
		}
		if nombre != sprint.Nombre {
			exists, err := s.repo.ExistsByNombre(ctx, nombre, id)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sprint nombre")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("a sprint named %q already exists", nombre))
			}
		}
		cambios["nombre"] = nombre
		sprint.Nombre = nombre
	}

	if req.Objetivo.Set {
		objetivo := req.Objetivo.Ptr()
		if objetivo != nil {
			objetivo = trimToNil(*objetivo)
		}
		cambios["objetivo"] = objetivo
		sprint.Objetivo = objetivo
	}

	// Re-validate the date ordering over the pair that would result.
	if req.FechaInicio.Set || req.FechaFin.Set {
		inicio := sprint.FechaInicio
		fin := sprint.FechaFin
		if req.FechaInicio.Set {
			if !req.FechaInicio.Valid || !req.FechaInicio.Value.Valid {
				return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_inicio cannot be empty")
			}
			inicio = req.FechaInicio.Value.Time
		}
		if req.FechaFin.Set {
			if !req.FechaFin.Valid || !req.FechaFin.Value.Valid {
				return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin cannot be empty")
			}
			fin = req.FechaFin.Value.Time
		}
		if !fin.After(inicio) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin must be after fecha_inicio")
		}
		if req.FechaInicio.Set {
			cambios["fecha_inicio"] = inicio
			sprint.FechaInicio = inicio
		}
		if req.FechaFin.Set {
			cambios["fecha_fin"] = fin
			sprint.FechaFin = fin
		}
	}

	activar := false
	if req.Estado.Set {
		estado := models.SprintEstado("")
		if req.Estado.Valid {
			estado = models.SprintEstado(strings.TrimSpace(req.Estado.Value))
		}
		if !estado.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("estado %q is not a valid sprint state", req.Estado.Value))
		}
		if estado == models.SprintActivo {
			activar = sprint.Estado != models.SprintActivo
		} else {
			cambios["estado"] = estado
		}
		sprint.Estado = estado
	}

	if len(cambios) > 0 {
		if err := s.repo.Update(ctx, id, cambios); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "sprint not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sprint")
		}
	}

	if activar {
		if err := s.repo.Activar(ctx, id); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate sprint")
		}
	}

	return sprint, nil
}

// Delete removes a sprint unless tasks still reference it; the conflict
// message carries the blocking count so the caller can redirect them first.
func (s *SprintService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "sprint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sprint")
	}

	count, err := s.repo.CountTareas(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sprint tareas")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("sprint has %d actividades associated; reassign them first", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "sprint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sprint")
	}
	return nil
}

func trimToNil(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
