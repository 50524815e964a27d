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

type actividadRepository interface {
	Create(ctx context.Context, actividad *models.Actividad) error
	FindByID(ctx context.Context, id int64) (*models.Actividad, error)
	ListBySolicitud(ctx context.Context, codigo string) ([]models.Actividad, error)
	Update(ctx context.Context, id int64, cambios map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type estadoSincronizador interface {
	SyncBestEffort(ctx context.Context, codigo string)
}

// ActividadService orchestrates Kanban task mutations and their follow-up
// status synchronization.
type ActividadService struct {
	repo      actividadRepository
	sync      estadoSincronizador
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActividadService creates a new task service instance.
func NewActividadService(repo actividadRepository, sync estadoSincronizador, validate *validator.Validate, logger *zap.Logger) *ActividadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActividadService{repo: repo, sync: sync, validator: validate, logger: logger}
}

// Create adds a task. Every optional field normalizes blank input to NULL,
// and the status is always Por Hacer no matter what arrived. New tasks never
// trigger synchronization.
func (s *ActividadService) Create(ctx context.Context, req dto.CrearActividadRequest) (*models.Actividad, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nombre_actividad is required")
	}
	nombre := strings.TrimSpace(req.NombreActividad)
	if nombre == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nombre_actividad is required")
	}

	prioridad := models.Prioridad(strings.TrimSpace(req.Prioridad))
	if prioridad == "" {
		prioridad = models.PrioridadMedia
	}
	if prioridad != models.PrioridadAlta && prioridad != models.PrioridadMedia && prioridad != models.PrioridadBaja {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("prioridad %q is not valid", req.Prioridad))
	}

	categoria := models.ActividadCategoria(strings.TrimSpace(req.Categoria))
	if categoria == "" {
		categoria = models.CategoriaDesarrollo
	}
	if !categoria.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("categoria %q is not valid", req.Categoria))
	}

	actividad := &models.Actividad{
		SolicitudCodigo: trimToNil(req.SolicitudCodigo),
		NombreActividad: nombre,
		Descripcion:     trimToNil(req.Descripcion),
		ResponsableDS:   trimToNil(req.ResponsableDS),
		Prioridad:       prioridad,
		FechaLimite:     req.FechaLimite.Ptr(),
		Categoria:       categoria,
		SprintID:        req.SprintID.Ptr(),
		Estado:          models.ActividadPorHacer,
	}

	if err := s.repo.Create(ctx, actividad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create actividad")
	}
	return actividad, nil
}

// Update applies a sparse change set to a task. When the change set includes
// a status change and the task is linked to a request, the request's derived
// status is reconciled afterwards, best effort.
func (s *ActividadService) Update(ctx context.Context, req dto.ActualizarActividadRequest) (*models.Actividad, error) {
	if req.TaskID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "taskId is required")
	}
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields provided to update")
	}

	actividad, err := s.repo.FindByID(ctx, req.TaskID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "actividad not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load actividad")
	}

	cambios := map[string]interface{}{}
	estadoCambiado := false

	// A null or blank newStatus is not a status change; the rest of the
	// payload still applies.
	if req.NewStatus.Set && req.NewStatus.Valid && strings.TrimSpace(req.NewStatus.Value) != "" {
		estado := models.ActividadEstado(strings.TrimSpace(req.NewStatus.Value))
		if !estado.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("estado %q is not a valid board column", req.NewStatus.Value))
		}
		cambios["estado_actividad"] = estado
		actividad.Estado = estado
		estadoCambiado = true
	}

	if req.NombreActividad.Set {
		nombre := ""
		if req.NombreActividad.Valid {
			nombre = strings.TrimSpace(req.NombreActividad.Value)
		}
		if nombre == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "nombre_actividad cannot be empty")
		}
		cambios["nombre_actividad"] = nombre
		actividad.NombreActividad = nombre
	}

	if req.Descripcion.Set {
		descripcion := optionalText(req.Descripcion)
		cambios["descripcion"] = descripcion
		actividad.Descripcion = descripcion
	}

	if req.ResponsableDS.Set {
		responsable := optionalText(req.ResponsableDS)
		cambios["responsable_ds"] = responsable
		actividad.ResponsableDS = responsable
	}

	if req.Prioridad.Set {
		prioridad := models.PrioridadMedia
		if req.Prioridad.Valid && strings.TrimSpace(req.Prioridad.Value) != "" {
			prioridad = models.Prioridad(strings.TrimSpace(req.Prioridad.Value))
		}
		if prioridad != models.PrioridadAlta && prioridad != models.PrioridadMedia && prioridad != models.PrioridadBaja {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("prioridad %q is not valid", req.Prioridad.Value))
		}
		cambios["prioridad"] = prioridad
		actividad.Prioridad = prioridad
	}

	if req.Categoria.Set {
		categoria := models.CategoriaDesarrollo
		if req.Categoria.Valid && strings.TrimSpace(req.Categoria.Value) != "" {
			categoria = models.ActividadCategoria(strings.TrimSpace(req.Categoria.Value))
		}
		if !categoria.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("categoria %q is not valid", req.Categoria.Value))
		}
		cambios["categoria"] = categoria
		actividad.Categoria = categoria
	}

	if req.FechaLimite.Set {
		var fecha interface{}
		actividad.FechaLimite = nil
		if req.FechaLimite.Valid && req.FechaLimite.Value.Valid {
			fecha = req.FechaLimite.Value.Time
			actividad.FechaLimite = req.FechaLimite.Value.Ptr()
		}
		cambios["fecha_limite"] = fecha
	}

	if req.SprintID.Set {
		var sprintID interface{}
		actividad.SprintID = nil
		if req.SprintID.Valid && req.SprintID.Value.Valid {
			sprintID = req.SprintID.Value.Value
			actividad.SprintID = req.SprintID.Value.Ptr()
		}
		cambios["sprint_id"] = sprintID
	}

	if len(cambios) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields provided to update")
	}

	if err := s.repo.Update(ctx, req.TaskID, cambios); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "actividad not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update actividad")
	}

	if estadoCambiado && actividad.SolicitudCodigo != nil {
		s.sync.SyncBestEffort(ctx, *actividad.SolicitudCodigo)
	}

	return actividad, nil
}

// Delete removes a task and then reconciles the previously linked request,
// best effort, over the shrunken task set.
func (s *ActividadService) Delete(ctx context.Context, id int64) error {
	actividad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "actividad not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load actividad")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "actividad not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete actividad")
	}

	if actividad.SolicitudCodigo != nil {
		s.sync.SyncBestEffort(ctx, *actividad.SolicitudCodigo)
	}
	return nil
}

func optionalText(o dto.Optional[string]) *string {
	if !o.Valid {
		return nil
	}
	return trimToNil(o.Value)
}
