package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/ds-interno/solicitudes-api/internal/models"
)

const (
	asuntoAprobacion   = "[DS] Aprobación Requerida: %s"
	asuntoConfirmacion = "[DS] Confirmación de Envío: %s"
)

var correoAprobacionTmpl = template.Must(template.New("aprobacion").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #ccc; border-radius: 8px;">
  <h1 style="color: #007bff;">Solicitud: {{.Codigo}} - {{.Proyecto}}</h1>
  <p><strong>De:</strong> {{.Solicitante}} ({{.Correo}})</p>
  <p><strong>Prioridad:</strong> <span style="font-weight: bold; color: {{.ColorPrioridad}};">{{.Prioridad}}</span></p>
  <hr/>
  <h2>Objetivo y Justificación</h2>
  <p>{{.Justificacion}}</p>
  <h3>Descripción del Requerimiento</h3>
  <p>{{.Descripcion}}</p>
  <h3>Archivos Adjuntos</h3>
  <ul style="list-style: disc; padding-left: 20px;">
    {{- if .Adjuntos}}
    {{- range .Adjuntos}}
    <li><a href="{{.URL}}" target="_blank">{{.Nombre}}</a></li>
    {{- end}}
    {{- else}}
    <li>No se adjuntaron archivos.</li>
    {{- end}}
  </ul>
  <hr/>
  <h2 style="color: #28a745;">Acción Requerida (Jefe Inmediato)</h2>
  <div style="margin-top: 20px;">
    <a href="{{.EnlaceAprobar}}" style="background-color: #28a745; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin-right: 15px;">APROBAR</a>
    <a href="{{.EnlaceRechazar}}" style="background-color: #dc3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">RECHAZAR</a>
  </div>
  <p style="margin-top: 20px; font-size: 0.8em; color: #666;">Si el botón no funciona, copie el enlace en su navegador.</p>
</div>`))

type datosCorreoAprobacion struct {
	Codigo         string
	Proyecto       string
	Solicitante    string
	Correo         string
	Prioridad      models.Prioridad
	ColorPrioridad string
	Justificacion  string
	Descripcion    string
	Adjuntos       []models.ArchivoAdjunto
	EnlaceAprobar  string
	EnlaceRechazar string
}

// BuildCorreoAprobacion renders the HTML body for the supervisor approval
// mail, including one-click approve/reject links against baseURL.
func BuildCorreoAprobacion(solicitud models.Solicitud, baseURL string) (string, error) {
	color := "#ffc107"
	if solicitud.Prioridad == models.PrioridadAlta {
		color = "#dc3545"
	}

	datos := datosCorreoAprobacion{
		Codigo:         solicitud.CodigoRequerimiento,
		Proyecto:       solicitud.NombreProyecto,
		Solicitante:    solicitud.NombreCompleto,
		Correo:         solicitud.CorreoElectronico,
		Prioridad:      solicitud.Prioridad,
		ColorPrioridad: color,
		Justificacion:  solicitud.ObjetivoJustificacion,
		Descripcion:    solicitud.DescripcionRequerimiento,
		Adjuntos:       parseAdjuntos(solicitud.ArchivosAdjuntos),
		EnlaceAprobar:  fmt.Sprintf("%s/api/solicitudes/approve?code=%s&action=approve", baseURL, solicitud.CodigoRequerimiento),
		EnlaceRechazar: fmt.Sprintf("%s/api/solicitudes/approve?code=%s&action=reject", baseURL, solicitud.CodigoRequerimiento),
	}

	var buf bytes.Buffer
	if err := correoAprobacionTmpl.Execute(&buf, datos); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildCorreoConfirmacion renders the short confirmation sent back to the
// requester.
func BuildCorreoConfirmacion(solicitud models.Solicitud) string {
	var buf bytes.Buffer
	template.HTMLEscape(&buf, []byte(solicitud.CorreoJefeInmediato))
	return fmt.Sprintf("<p>Tu solicitud ha sido enviada con éxito para aprobación del jefe inmediato (%s).</p>", buf.String())
}

// parseAdjuntos tolerates missing or malformed attachment JSON; a request
// with a broken attachment list still gets its approval mail.
func parseAdjuntos(raw *string) []models.ArchivoAdjunto {
	if raw == nil || *raw == "" {
		return nil
	}
	var adjuntos []models.ArchivoAdjunto
	if err := json.Unmarshal([]byte(*raw), &adjuntos); err != nil {
		return nil
	}
	return adjuntos
}
