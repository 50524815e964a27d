package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ds-interno/solicitudes-api/internal/dto"
	"github.com/ds-interno/solicitudes-api/internal/models"
	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
	"github.com/ds-interno/solicitudes-api/pkg/jobs"
	"github.com/ds-interno/solicitudes-api/pkg/mailer"
)

const (
	AccionAprobar  = "approve"
	AccionRechazar = "reject"

	dashboardCacheKey = "dashboard:v1"
)

type solicitudRepository interface {
	ListAll(ctx context.Context) ([]models.Solicitud, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.Solicitud, error)
	UpdateEstado(ctx context.Context, codigo string, estado models.SolicitudEstado) error
	UpdateCampo(ctx context.Context, codigo, columna string, valor interface{}, marcarInicioAnalisis bool) error
}

type tableroActividadLister interface {
	ListAllConSprint(ctx context.Context) ([]models.ActividadConSprint, error)
	ListBySolicitud(ctx context.Context, codigo string) ([]models.Actividad, error)
}

type tableroSprintLister interface {
	List(ctx context.Context) ([]models.SprintConTareas, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

type mailQueue interface {
	Enqueue(job jobs.Job) error
}

// CorreoJob is the payload carried by the best-effort mail queue.
type CorreoJob struct {
	Para   []string
	Asunto string
	HTML   string
}

// Columns a caller may touch through the update-field endpoint. Anything
// else is rejected before reaching the store.
var camposActualizables = map[string]struct{}{
	"estado":               {},
	"responsable_asignado": {},
	"prioridad_asignada":   {},
	"observaciones_ds":     {},
}

var estadosSolicitud = map[models.SolicitudEstado]struct{}{
	models.EstadoPendienteAprobacion: {},
	models.EstadoAprobadaPendiente:   {},
	models.EstadoRechazada:           {},
	models.EstadoEnAnalisis:          {},
	models.EstadoEnDesarrollo:        {},
	models.EstadoEnSoporte:           {},
	models.EstadoCompletado:          {},
}

// SolicitudService covers the request-side workflow: approval notification,
// the emailed approve/reject decision, the aggregate dashboard and the
// management field updates.
type SolicitudService struct {
	repo        solicitudRepository
	actividades tableroActividadLister
	sprints     tableroSprintLister
	notifier    mailer.Notifier
	correos     mailQueue
	cache       dashboardCache
	cacheTTL    time.Duration
	metrics     cacheObserver
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSolicitudService creates a new request service instance. cache, correos
// and metrics may be nil; the related behaviour degrades gracefully.
func NewSolicitudService(
	repo solicitudRepository,
	actividades tableroActividadLister,
	sprints tableroSprintLister,
	notifier mailer.Notifier,
	correos mailQueue,
	cache dashboardCache,
	cacheTTL time.Duration,
	metrics cacheObserver,
	validate *validator.Validate,
	logger *zap.Logger,
) *SolicitudService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolicitudService{
		repo:        repo,
		actividades: actividades,
		sprints:     sprints,
		notifier:    notifier,
		correos:     correos,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Notificar sends the approval mail to the supervisor addresses. That send
// is critical: failure fails the call. The requester's confirmation is
// queued fire-and-forget and its outcome is never checked.
func (s *SolicitudService) Notificar(ctx context.Context, req dto.NotificarRequest, baseURL string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "destinatarios are required")
	}
	codigo := strings.TrimSpace(req.Solicitud.CodigoRequerimiento)
	if codigo == "" {
		return appErrors.Clone(appErrors.ErrValidation, "codigo_requerimiento is required")
	}

	cuerpo, err := BuildCorreoAprobacion(req.Solicitud, baseURL)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render approval mail")
	}

	if err := s.notifier.Send(req.Destinatarios, fmt.Sprintf(asuntoAprobacion, codigo), cuerpo); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMailFailed.Code, appErrors.ErrMailFailed.Status, "failed to send approval mail to supervisor")
	}

	if s.correos != nil && req.Solicitud.CorreoElectronico != "" {
		job := jobs.Job{
			ID:   uuid.NewString(),
			Type: "confirmacion",
			Payload: CorreoJob{
				Para:   []string{req.Solicitud.CorreoElectronico},
				Asunto: fmt.Sprintf(asuntoConfirmacion, codigo),
				HTML:   BuildCorreoConfirmacion(req.Solicitud),
			},
		}
		if err := s.correos.Enqueue(job); err != nil {
			s.logger.Sugar().Warnw("failed to queue confirmation mail", "codigo", codigo, "error", err)
		}
	}

	return nil
}

// ResolverAprobacion maps the emailed approve/reject click onto a status
// overwrite. The write is unconditional: stale links simply re-apply the
// same status.
func (s *SolicitudService) ResolverAprobacion(ctx context.Context, codigo, accion string) (models.SolicitudEstado, error) {
	var estado models.SolicitudEstado
	switch accion {
	case AccionAprobar:
		estado = models.EstadoAprobadaPendiente
	case AccionRechazar:
		estado = models.EstadoRechazada
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("action %q is not valid", accion))
	}
	if strings.TrimSpace(codigo) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "code is required")
	}

	if err := s.repo.UpdateEstado(ctx, codigo, estado); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update solicitud estado")
	}
	return estado, nil
}

// Dashboard returns every request, task (with sprint name) and sprint in one
// payload. A short-lived Redis cache absorbs board refreshes; cache failures
// are logged and the payload is composed from the store.
func (s *SolicitudService) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	if s.cache != nil {
		start := time.Now()
		var cached dto.Dashboard
		err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("dashboard cache read failed", "error", err)
		}
	}

	solicitudes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solicitudes")
	}
	actividades, err := s.actividades.ListAllConSprint(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load actividades")
	}
	sprints, err := s.sprints.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sprints")
	}

	tablero := &dto.Dashboard{
		Solicitudes: solicitudes,
		Actividades: actividades,
		Sprints:     sprints,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, tablero, s.cacheTTL); err != nil {
			s.logger.Sugar().Warnw("dashboard cache write failed", "error", err)
		}
	}

	return tablero, nil
}

// ActualizarCampo sets one whitelisted management column on a request.
// Moving estado to En Análisis also stamps the analysis start date, but only
// the first time.
func (s *SolicitudService) ActualizarCampo(ctx context.Context, req dto.ActualizarCampoRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "codigo_requerimiento and campo are required")
	}

	campo := strings.TrimSpace(req.Campo)
	if _, ok := camposActualizables[campo]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("campo %q cannot be updated", req.Campo))
	}

	var valor interface{}
	marcarInicio := false
	if campo == "estado" {
		estado := models.SolicitudEstado(strings.TrimSpace(req.Valor))
		if _, ok := estadosSolicitud[estado]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("estado %q is not valid", req.Valor))
		}
		valor = estado
		marcarInicio = estado == models.EstadoEnAnalisis
	} else {
		valor = trimToNil(req.Valor)
	}

	if err := s.repo.UpdateCampo(ctx, req.CodigoRequerimiento, campo, valor, marcarInicio); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "solicitud not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to update campo %s", campo))
	}
	return nil
}

// Progreso summarizes task counts and completion percentage for one request.
// Unknown codes are reported as not found rather than as an empty summary.
func (s *SolicitudService) Progreso(ctx context.Context, codigo string) (*dto.Progreso, error) {
	if strings.TrimSpace(codigo) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "code is required")
	}

	if _, err := s.repo.FindByCodigo(ctx, codigo); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solicitud not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solicitud")
	}

	actividades, err := s.actividades.ListBySolicitud(ctx, codigo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load actividades")
	}

	progreso := &dto.Progreso{CodigoRequerimiento: codigo, Total: len(actividades)}
	for _, a := range actividades {
		switch a.Estado {
		case models.ActividadPorHacer:
			progreso.PorHacer++
		case models.ActividadEnCurso:
			progreso.EnCurso++
		case models.ActividadRevision:
			progreso.Revision++
		case models.ActividadTerminado:
			progreso.Terminadas++
		}
	}
	if progreso.Total > 0 {
		progreso.Porcentaje = float64(progreso.Terminadas) / float64(progreso.Total) * 100
	}
	return progreso, nil
}
