package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds-interno/solicitudes-api/internal/dto"
	"github.com/ds-interno/solicitudes-api/internal/models"
	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
	"github.com/ds-interno/solicitudes-api/pkg/jobs"
)

type estadoUpdate struct {
	codigo string
	estado models.SolicitudEstado
}

type campoUpdate struct {
	codigo       string
	columna      string
	valor        interface{}
	marcarInicio bool
}

type solicitudRepoStub struct {
	solicitudes []models.Solicitud
	estados     []estadoUpdate
	campos      []campoUpdate
	campoErr    error
	findErr     error
}

func (s *solicitudRepoStub) ListAll(ctx context.Context) ([]models.Solicitud, error) {
	return s.solicitudes, nil
}

func (s *solicitudRepoStub) FindByCodigo(ctx context.Context, codigo string) (*models.Solicitud, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := range s.solicitudes {
		if s.solicitudes[i].CodigoRequerimiento == codigo {
			out := s.solicitudes[i]
			return &out, nil
		}
	}
	return &models.Solicitud{CodigoRequerimiento: codigo}, nil
}

func (s *solicitudRepoStub) UpdateEstado(ctx context.Context, codigo string, estado models.SolicitudEstado) error {
	s.estados = append(s.estados, estadoUpdate{codigo: codigo, estado: estado})
	return nil
}

func (s *solicitudRepoStub) UpdateCampo(ctx context.Context, codigo, columna string, valor interface{}, marcarInicioAnalisis bool) error {
	if s.campoErr != nil {
		return s.campoErr
	}
	s.campos = append(s.campos, campoUpdate{codigo: codigo, columna: columna, valor: valor, marcarInicio: marcarInicioAnalisis})
	return nil
}

type tableroListerStub struct {
	conSprint    []models.ActividadConSprint
	porSolicitud []models.Actividad
	listCalls    int
}

func (s *tableroListerStub) ListAllConSprint(ctx context.Context) ([]models.ActividadConSprint, error) {
	s.listCalls++
	return s.conSprint, nil
}

func (s *tableroListerStub) ListBySolicitud(ctx context.Context, codigo string) ([]models.Actividad, error) {
	return s.porSolicitud, nil
}

type sprintListerStub struct {
	sprints []models.SprintConTareas
}

func (s *sprintListerStub) List(ctx context.Context) ([]models.SprintConTareas, error) {
	return s.sprints, nil
}

type notifierStub struct {
	sent []struct {
		to      []string
		subject string
		html    string
	}
	err error
}

func (s *notifierStub) Send(to []string, subject, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, struct {
		to      []string
		subject string
		html    string
	}{to, subject, htmlBody})
	return nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (s *queueStub) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type cacheStub struct {
	cached *dto.Dashboard
	sets   int
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if s.cached == nil {
		return appErrors.ErrCacheMiss
	}
	*dest.(*dto.Dashboard) = *s.cached
	return nil
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets++
	return nil
}

func newSolicitudServiceForTest(repo *solicitudRepoStub, actividades *tableroListerStub, sprints *sprintListerStub, notifier *notifierStub, queue *queueStub, cache *cacheStub) *SolicitudService {
	return NewSolicitudService(repo, actividades, sprints, notifier, queue, cache, time.Minute, nil, nil, nil)
}

func solicitudDePrueba() models.Solicitud {
	return models.Solicitud{
		CodigoRequerimiento:      "REQ-2026-001",
		NombreProyecto:           "Portal de Proveedores",
		NombreCompleto:           "Laura Méndez",
		CorreoElectronico:        "laura@example.com",
		CorreoJefeInmediato:      "jefe@example.com",
		Prioridad:                models.PrioridadAlta,
		ObjetivoJustificacion:    "Reducir tiempos de registro",
		DescripcionRequerimiento: "Formulario de alta de proveedores",
	}
}

func TestNotificarEnviaYEncolaConfirmacion(t *testing.T) {
	notifier := &notifierStub{}
	queue := &queueStub{}
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, &tableroListerStub{}, &sprintListerStub{}, notifier, queue, nil)

	err := svc.Notificar(context.Background(), dto.NotificarRequest{
		Solicitud:     solicitudDePrueba(),
		Destinatarios: []string{"jefe@example.com"},
	}, "https://ds.example.com")
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"jefe@example.com"}, notifier.sent[0].to)
	assert.Contains(t, notifier.sent[0].subject, "REQ-2026-001")
	// html/template escapes the & inside href attributes.
	assert.Contains(t, notifier.sent[0].html, "https://ds.example.com/api/solicitudes/approve?code=REQ-2026-001&amp;action=approve")
	assert.Contains(t, notifier.sent[0].html, "action=reject")

	require.Len(t, queue.jobs, 1)
	correo, ok := queue.jobs[0].Payload.(CorreoJob)
	require.True(t, ok)
	assert.Equal(t, []string{"laura@example.com"}, correo.Para)
	assert.Contains(t, correo.Asunto, "Confirmación")
}

func TestNotificarFalloSupervisorEsFatal(t *testing.T) {
	notifier := &notifierStub{err: errors.New("smtp refused")}
	queue := &queueStub{}
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, &tableroListerStub{}, &sprintListerStub{}, notifier, queue, nil)

	err := svc.Notificar(context.Background(), dto.NotificarRequest{
		Solicitud:     solicitudDePrueba(),
		Destinatarios: []string{"jefe@example.com"},
	}, "https://ds.example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMailFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, queue.jobs)
}

func TestNotificarFalloColaNoFatal(t *testing.T) {
	notifier := &notifierStub{}
	queue := &queueStub{err: errors.New("queue stopped")}
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, &tableroListerStub{}, &sprintListerStub{}, notifier, queue, nil)

	err := svc.Notificar(context.Background(), dto.NotificarRequest{
		Solicitud:     solicitudDePrueba(),
		Destinatarios: []string{"jefe@example.com"},
	}, "https://ds.example.com")
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
}

func TestNotificarSinDestinatarios(t *testing.T) {
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)
	err := svc.Notificar(context.Background(), dto.NotificarRequest{Solicitud: solicitudDePrueba()}, "https://ds.example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResolverAprobacionApprove(t *testing.T) {
	repo := &solicitudRepoStub{}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	estado, err := svc.ResolverAprobacion(context.Background(), "REQ-2026-001", AccionAprobar)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoAprobadaPendiente, estado)
	require.Len(t, repo.estados, 1)
	assert.Equal(t, estadoUpdate{codigo: "REQ-2026-001", estado: models.EstadoAprobadaPendiente}, repo.estados[0])
}

func TestResolverAprobacionReject(t *testing.T) {
	repo := &solicitudRepoStub{}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	estado, err := svc.ResolverAprobacion(context.Background(), "REQ-2026-001", AccionRechazar)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoRechazada, estado)
}

func TestResolverAprobacionAccionInvalida(t *testing.T) {
	repo := &solicitudRepoStub{}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	_, err := svc.ResolverAprobacion(context.Background(), "REQ-2026-001", "cancel")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.estados)
}

func TestDashboardCacheHitEvitaConsultas(t *testing.T) {
	actividades := &tableroListerStub{}
	cache := &cacheStub{cached: &dto.Dashboard{Solicitudes: []models.Solicitud{solicitudDePrueba()}}}
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, actividades, &sprintListerStub{}, &notifierStub{}, &queueStub{}, cache)

	tablero, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, tablero.Solicitudes, 1)
	assert.Zero(t, actividades.listCalls)
}

func TestDashboardCacheMissComponeYGuarda(t *testing.T) {
	repo := &solicitudRepoStub{solicitudes: []models.Solicitud{solicitudDePrueba()}}
	actividades := &tableroListerStub{conSprint: []models.ActividadConSprint{{Actividad: models.Actividad{ID: 1, NombreActividad: "X"}}}}
	sprints := &sprintListerStub{sprints: []models.SprintConTareas{{Sprint: models.Sprint{ID: 1, Nombre: "Sprint 12"}, TareasAsociadas: 3}}}
	cache := &cacheStub{}
	svc := newSolicitudServiceForTest(repo, actividades, sprints, &notifierStub{}, &queueStub{}, cache)

	tablero, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, tablero.Solicitudes, 1)
	assert.Len(t, tablero.Actividades, 1)
	assert.Len(t, tablero.Sprints, 1)
	assert.Equal(t, 1, cache.sets)
}

func TestActualizarCampoFueraDeWhitelist(t *testing.T) {
	repo := &solicitudRepoStub{}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	err := svc.ActualizarCampo(context.Background(), dto.ActualizarCampoRequest{
		CodigoRequerimiento: "REQ-2026-001",
		Campo:               "correo_electronico",
		Valor:               "otro@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.campos)
}

func TestActualizarCampoEstadoInvalido(t *testing.T) {
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)
	err := svc.ActualizarCampo(context.Background(), dto.ActualizarCampoRequest{
		CodigoRequerimiento: "REQ-2026-001",
		Campo:               "estado",
		Valor:               "Archivada",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestActualizarCampoEnAnalisisMarcaInicio(t *testing.T) {
	repo := &solicitudRepoStub{}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	require.NoError(t, svc.ActualizarCampo(context.Background(), dto.ActualizarCampoRequest{
		CodigoRequerimiento: "REQ-2026-001",
		Campo:               "estado",
		Valor:               string(models.EstadoEnAnalisis),
	}))
	require.Len(t, repo.campos, 1)
	assert.True(t, repo.campos[0].marcarInicio)
	assert.Equal(t, models.EstadoEnAnalisis, repo.campos[0].valor)
}

func TestActualizarCampoBlancoLimpia(t *testing.T) {
	repo := &solicitudRepoStub{}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	require.NoError(t, svc.ActualizarCampo(context.Background(), dto.ActualizarCampoRequest{
		CodigoRequerimiento: "REQ-2026-001",
		Campo:               "responsable_asignado",
		Valor:               "   ",
	}))
	require.Len(t, repo.campos, 1)
	assert.False(t, repo.campos[0].marcarInicio)
	assert.Nil(t, repo.campos[0].valor.(*string))
}

func TestActualizarCampoCodigoDesconocido(t *testing.T) {
	repo := &solicitudRepoStub{campoErr: sql.ErrNoRows}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	err := svc.ActualizarCampo(context.Background(), dto.ActualizarCampoRequest{
		CodigoRequerimiento: "REQ-NOPE",
		Campo:               "observaciones_ds",
		Valor:               "pendiente revisar",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProgresoCalculaPorcentaje(t *testing.T) {
	actividades := &tableroListerStub{porSolicitud: []models.Actividad{
		{Estado: models.ActividadTerminado},
		{Estado: models.ActividadTerminado},
		{Estado: models.ActividadEnCurso},
		{Estado: models.ActividadPorHacer},
	}}
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, actividades, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	progreso, err := svc.Progreso(context.Background(), "REQ-2026-001")
	require.NoError(t, err)
	assert.Equal(t, 4, progreso.Total)
	assert.Equal(t, 2, progreso.Terminadas)
	assert.Equal(t, 1, progreso.EnCurso)
	assert.Equal(t, 1, progreso.PorHacer)
	assert.InDelta(t, 50.0, progreso.Porcentaje, 0.01)
}

func TestProgresoSinTareas(t *testing.T) {
	svc := newSolicitudServiceForTest(&solicitudRepoStub{}, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)
	progreso, err := svc.Progreso(context.Background(), "REQ-2026-001")
	require.NoError(t, err)
	assert.Zero(t, progreso.Total)
	assert.Zero(t, progreso.Porcentaje)
}

func TestProgresoCodigoDesconocido(t *testing.T) {
	repo := &solicitudRepoStub{findErr: sql.ErrNoRows}
	svc := newSolicitudServiceForTest(repo, &tableroListerStub{}, &sprintListerStub{}, &notifierStub{}, &queueStub{}, nil)

	_, err := svc.Progreso(context.Background(), "REQ-NOPE")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBuildCorreoAprobacionIncluyeAdjuntos(t *testing.T) {
	solicitud := solicitudDePrueba()
	adjuntos := `[{"url":"https://files.example.com/doc.pdf","nombre":"doc.pdf"}]`
	solicitud.ArchivosAdjuntos = &adjuntos

	html, err := BuildCorreoAprobacion(solicitud, "https://ds.example.com")
	require.NoError(t, err)
	assert.Contains(t, html, "doc.pdf")
	assert.Contains(t, html, "REQ-2026-001")
	assert.True(t, strings.Contains(html, "#dc3545") || strings.Contains(html, "dc3545"))
}
