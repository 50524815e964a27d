package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds-interno/solicitudes-api/internal/models"
	"github.com/ds-interno/solicitudes-api/internal/service"
)

type actividadRepoStub struct {
	found   *models.Actividad
	deleted []int64
}

func (s *actividadRepoStub) Create(ctx context.Context, actividad *models.Actividad) error {
	actividad.ID = 42
	return nil
}

func (s *actividadRepoStub) FindByID(ctx context.Context, id int64) (*models.Actividad, error) {
	if s.found == nil {
		return nil, sql.ErrNoRows
	}
	copia := *s.found
	return &copia, nil
}

func (s *actividadRepoStub) ListBySolicitud(ctx context.Context, codigo string) ([]models.Actividad, error) {
	return nil, nil
}

func (s *actividadRepoStub) Update(ctx context.Context, id int64, cambios map[string]interface{}) error {
	return nil
}

func (s *actividadRepoStub) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type syncStub struct{}

func (syncStub) SyncBestEffort(ctx context.Context, codigo string) {}

func newActividadHandlerForTest(repo *actividadRepoStub) *ActividadHandler {
	return NewActividadHandler(service.NewActividadService(repo, syncStub{}, nil, nil))
}

func TestActividadHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newActividadHandlerForTest(&actividadRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/actividades/add", strings.NewReader(`{"nombre_actividad": "Levantar ambiente", "sprint_id": "3"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":42`)
	assert.Contains(t, w.Body.String(), `"estado_actividad":"Por Hacer"`)
	assert.Contains(t, w.Body.String(), `"sprint_id":3`)
}

func TestActividadHandlerCreateSinNombre(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newActividadHandlerForTest(&actividadRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/actividades/add", strings.NewReader(`{"descripcion": "sin nombre"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActividadHandlerUpdateNoEncontrada(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newActividadHandlerForTest(&actividadRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/actividades/update-status", strings.NewReader(`{"taskId": 99, "newStatus": "En Curso"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActividadHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &actividadRepoStub{found: &models.Actividad{ID: 7, NombreActividad: "X"}}
	handler := newActividadHandlerForTest(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/actividades/7", nil)
	c.Params = gin.Params{{Key: "taskId", Value: "7"}}

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tarea eliminada.")
	assert.Equal(t, []int64{7}, repo.deleted)
}

func TestActividadHandlerDeleteIDInvalido(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newActividadHandlerForTest(&actividadRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/actividades/abc", nil)
	c.Params = gin.Params{{Key: "taskId", Value: "abc"}}

	handler.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
