package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/ds-interno/solicitudes-api/internal/models"
	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
)

type syncActividadLister interface {
	ListBySolicitud(ctx context.Context, codigo string) ([]models.Actividad, error)
}

type syncSolicitudStore interface {
	EstadoActual(ctx context.Context, codigo string) (models.SolicitudEstado, error)
	UpdateEstado(ctx context.Context, codigo string, estado models.SolicitudEstado) error
}

// SyncService reconciles a request's status with the statuses of its tasks.
type SyncService struct {
	actividades syncActividadLister
	solicitudes syncSolicitudStore
	logger      *zap.Logger
}

// NewSyncService builds a SyncService.
func NewSyncService(actividades syncActividadLister, solicitudes syncSolicitudStore, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{actividades: actividades, solicitudes: solicitudes, logger: logger}
}

// DeriveEstado computes the roll-up status for a set of tasks. The second
// return is false when the task set produces no opinion (no tasks at all, or
// nothing matching a roll-up rule), in which case the stored status stands.
//
// Tasks split into primary work (categoria desarrollo, or anything that is
// not soporte/cambio) and support work (soporte, cambio). Primary work done
// means the request is either Completado or, while support tasks remain
// open, En Soporte. Any open primary work keeps the request En Desarrollo.
func DeriveEstado(actividades []models.Actividad) (models.SolicitudEstado, bool) {
	var principales, soporte []models.ActividadEstado
	for _, a := range actividades {
		if a.Categoria.EsSoporte() {
			soporte = append(soporte, a.Estado)
		} else {
			principales = append(principales, a.Estado)
		}
	}

	if len(principales) > 0 && todas(principales, models.ActividadTerminado) {
		if len(soporte) == 0 {
			return models.EstadoCompletado, true
		}
		for _, e := range soporte {
			if e.EnMarcha() {
				return models.EstadoEnSoporte, true
			}
		}
		if todas(soporte, models.ActividadTerminado) {
			return models.EstadoCompletado, true
		}
		return models.EstadoEnSoporte, true
	}

	for _, e := range principales {
		if e == models.ActividadEnCurso || e == models.ActividadRevision || e == models.ActividadPorHacer {
			return models.EstadoEnDesarrollo, true
		}
	}

	return "", false
}

func todas(estados []models.ActividadEstado, quiere models.ActividadEstado) bool {
	for _, e := range estados {
		if e != quiere {
			return false
		}
	}
	return true
}

// Sync recomputes the derived status for one request and persists it only
// when it differs from the stored one. Re-running with unchanged inputs
// never issues a second write.
func (s *SyncService) Sync(ctx context.Context, codigo string) error {
	actividades, err := s.actividades.ListBySolicitud(ctx, codigo)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load actividades for sync")
	}

	derivado, ok := DeriveEstado(actividades)
	if !ok {
		return nil
	}

	actual, err := s.solicitudes.EstadoActual(ctx, codigo)
	if err != nil {
		if err == sql.ErrNoRows {
			// Task pointed at a code that no longer exists; nothing to update.
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solicitud estado")
	}
	if actual == derivado {
		return nil
	}

	if err := s.solicitudes.UpdateEstado(ctx, codigo, derivado); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist derived estado")
	}

	s.logger.Sugar().Infow("estado sincronizado", "codigo", codigo, "anterior", actual, "derivado", derivado)
	return nil
}

// SyncBestEffort runs Sync after a task mutation that already committed. The
// mutation's success is reported regardless, so failures here are logged and
// swallowed, never retried.
func (s *SyncService) SyncBestEffort(ctx context.Context, codigo string) {
	if err := s.Sync(ctx, codigo); err != nil {
		s.logger.Sugar().Warnw("status sync failed", "codigo", codigo, "error", err)
	}
}
