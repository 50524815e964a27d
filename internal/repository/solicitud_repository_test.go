package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds-interno/solicitudes-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestSolicitudRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	creado := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"codigo_requerimiento", "nombre_proyecto", "nombre_completo", "correo_electronico",
		"correo_jefe_inmediato", "prioridad", "objetivo_justificacion", "descripcion_requerimiento",
		"archivos_adjuntos", "estado", "fecha_creacion", "fecha_actualizacion",
		"fecha_inicio_analisis", "responsable_asignado", "prioridad_asignada", "observaciones_ds",
	}).AddRow(
		"REQ-2026-001", "Portal", "Laura Méndez", "laura@example.com",
		"jefe@example.com", "Alta", "Reducir tiempos", "Formulario de alta",
		nil, "Pendiente de Aprobación", creado, nil,
		nil, nil, nil, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT codigo_requerimiento`)).WillReturnRows(rows)

	solicitudes, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, solicitudes, 1)
	assert.Equal(t, "REQ-2026-001", solicitudes[0].CodigoRequerimiento)
	assert.Equal(t, models.EstadoPendienteAprobacion, solicitudes[0].Estado)
	assert.Nil(t, solicitudes[0].FechaInicioAnalisis)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitudRepositoryFindByCodigo(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	rows := sqlmock.NewRows([]string{
		"codigo_requerimiento", "nombre_proyecto", "nombre_completo", "correo_electronico",
		"correo_jefe_inmediato", "prioridad", "objetivo_justificacion", "descripcion_requerimiento",
		"archivos_adjuntos", "estado", "fecha_creacion", "fecha_actualizacion",
		"fecha_inicio_analisis", "responsable_asignado", "prioridad_asignada", "observaciones_ds",
	}).AddRow(
		"REQ-2026-001", "Portal", "Laura Méndez", "laura@example.com",
		"jefe@example.com", "Alta", "Reducir tiempos", "Formulario de alta",
		nil, "En Desarrollo", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), nil,
		nil, nil, nil, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM solicitudes_desarrollo WHERE codigo_requerimiento = $1`)).
		WithArgs("REQ-2026-001").
		WillReturnRows(rows)

	solicitud, err := repo.FindByCodigo(context.Background(), "REQ-2026-001")
	require.NoError(t, err)
	assert.Equal(t, models.EstadoEnDesarrollo, solicitud.Estado)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitudRepositoryFindByCodigoNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM solicitudes_desarrollo WHERE codigo_requerimiento = $1`)).
		WithArgs("REQ-GONE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCodigo(context.Background(), "REQ-GONE")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestSolicitudRepositoryEstadoActual(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT estado FROM solicitudes_desarrollo WHERE codigo_requerimiento = $1`)).
		WithArgs("REQ-2026-001").
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("En Desarrollo"))

	estado, err := repo.EstadoActual(context.Background(), "REQ-2026-001")
	require.NoError(t, err)
	assert.Equal(t, models.EstadoEnDesarrollo, estado)
}

func TestSolicitudRepositoryEstadoActualNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT estado FROM solicitudes_desarrollo`)).
		WithArgs("REQ-GONE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.EstadoActual(context.Background(), "REQ-GONE")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestSolicitudRepositoryUpdateEstado(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE solicitudes_desarrollo SET estado = $1, fecha_actualizacion = $2 WHERE codigo_requerimiento = $3`)).
		WithArgs("Completado", sqlmock.AnyArg(), "REQ-2026-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateEstado(context.Background(), "REQ-2026-001", models.EstadoCompletado))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitudRepositoryUpdateCampoSimple(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	responsable := "Carlos"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE solicitudes_desarrollo SET responsable_asignado = $1, fecha_actualizacion = $2 WHERE codigo_requerimiento = $3`)).
		WithArgs(&responsable, sqlmock.AnyArg(), "REQ-2026-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCampo(context.Background(), "REQ-2026-001", "responsable_asignado", &responsable, false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitudRepositoryUpdateCampoMarcaInicioAnalisis(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE solicitudes_desarrollo SET estado = $1, fecha_actualizacion = $2, fecha_inicio_analisis = COALESCE(fecha_inicio_analisis, $2) WHERE codigo_requerimiento = $3`)).
		WithArgs(models.EstadoEnAnalisis, sqlmock.AnyArg(), "REQ-2026-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCampo(context.Background(), "REQ-2026-001", "estado", models.EstadoEnAnalisis, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitudRepositoryUpdateCampoNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolicitudRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE solicitudes_desarrollo SET observaciones_ds`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "REQ-GONE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCampo(context.Background(), "REQ-GONE", "observaciones_ds", nil, false)
	assert.Equal(t, sql.ErrNoRows, err)
}
