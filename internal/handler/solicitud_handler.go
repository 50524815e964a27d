package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ds-interno/solicitudes-api/internal/dto"
	"github.com/ds-interno/solicitudes-api/internal/service"
	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
	"github.com/ds-interno/solicitudes-api/pkg/response"
)

// SolicitudHandler exposes request-workflow endpoints.
type SolicitudHandler struct {
	service       *service.SolicitudService
	publicBaseURL string
}

// NewSolicitudHandler constructs a request handler. publicBaseURL is the
// externally reachable address baked into approval links; when empty the
// handler falls back to the incoming request's host.
func NewSolicitudHandler(svc *service.SolicitudService, publicBaseURL string) *SolicitudHandler {
	return &SolicitudHandler{service: svc, publicBaseURL: publicBaseURL}
}

func (h *SolicitudHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// Notificar godoc
// @Summary Send the approval email for a freshly created request
// @Tags Solicitudes
// @Accept json
// @Produce json
// @Param payload body dto.NotificarRequest true "Request plus supervisor recipients"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /solicitudes/notificar [post]
func (h *SolicitudHandler) Notificar(c *gin.Context) {
	var req dto.NotificarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Notificar(c.Request.Context(), req, h.baseURL(c)); err != nil {
		response.Error(c, err)
		return
	}
	mensaje := fmt.Sprintf("Tu solicitud ha sido enviada con éxito para aprobación del jefe inmediato (%s).", req.Solicitud.CorreoJefeInmediato)
	response.JSON(c, http.StatusOK, gin.H{"codigo_requerimiento": req.Solicitud.CodigoRequerimiento}, mensaje)
}

// Aprobar godoc
// @Summary Resolve an approval link click
// @Description Renders a human-readable HTML page; this endpoint is opened from the supervisor's mail client.
// @Tags Solicitudes
// @Produce html
// @Param code query string true "Request code"
// @Param action query string true "approve or reject"
// @Success 200 {string} string "confirmation page"
// @Failure 400 {string} string "invalid link page"
// @Router /solicitudes/approve [get]
func (h *SolicitudHandler) Aprobar(c *gin.Context) {
	code := c.Query("code")
	action := c.Query("action")

	if code == "" || (action != service.AccionAprobar && action != service.AccionRechazar) {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte(`<h1 style="color:red;">Error de Parámetros</h1><p>Enlace de aprobación inválido.</p>`))
		return
	}

	estado, err := h.service.ResolverAprobacion(c.Request.Context(), code, action)
	if err != nil {
		page := fmt.Sprintf(`
            <div style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
                <h1 style="color: red;">Error interno del servidor</h1>
                <p>No se pudo procesar la acción. Por favor, contacta a TI. Error: %s</p>
            </div>`, html.EscapeString(appErrors.FromError(err).Message))
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(page))
		return
	}

	verb := "APROBADA"
	color := "green"
	if action == service.AccionRechazar {
		verb = "RECHAZADA"
		color = "red"
	}
	page := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
            <h1 style="color: %s;">¡Solicitud %s %s con éxito!</h1>
            <p>El estado del requerimiento ha sido actualizado a: <strong>%s</strong>.</p>
            <p>El equipo de Desarrollo y el solicitante serán notificados.</p>
        </div>`, color, html.EscapeString(code), verb, estado)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Dashboard godoc
// @Summary Load all board data in one call
// @Tags Solicitudes
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.Dashboard}
// @Router /solicitudes/dashboard [get]
func (h *SolicitudHandler) Dashboard(c *gin.Context) {
	data, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}

// ActualizarCampo godoc
// @Summary Update a single management field on a request
// @Tags Solicitudes
// @Accept json
// @Produce json
// @Param payload body dto.ActualizarCampoRequest true "Field update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /solicitudes/update-field [put]
func (h *SolicitudHandler) ActualizarCampo(c *gin.Context) {
	var req dto.ActualizarCampoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.ActualizarCampo(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	mensaje := fmt.Sprintf("Campo %s actualizado para %s.", req.Campo, req.CodigoRequerimiento)
	response.JSON(c, http.StatusOK, nil, mensaje)
}

// Progreso godoc
// @Summary Task completion summary for one request
// @Tags Solicitudes
// @Produce json
// @Param code path string true "Request code"
// @Success 200 {object} response.Envelope{data=dto.Progreso}
// @Failure 404 {object} response.Envelope
// @Router /solicitudes/{code}/progress [get]
func (h *SolicitudHandler) Progreso(c *gin.Context) {
	progreso, err := h.service.Progreso(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progreso)
}
