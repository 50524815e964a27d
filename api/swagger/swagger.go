package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Solicitudes DS API",
        "description": "Request approval and Kanban tracking backend for the development team",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Solicitudes", "description": "Development request workflow"},
        {"name": "Actividades", "description": "Kanban board tasks"},
        {"name": "Sprints", "description": "Sprint planning"}
    ],
    "paths": {
        "/solicitudes/notificar": {
            "post": {
                "tags": ["Solicitudes"],
                "summary": "Send the approval email for a freshly created request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NotificarRequest"}}
                ],
                "responses": {
                    "200": {"description": "Mail sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Supervisor mail could not be delivered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solicitudes/approve": {
            "get": {
                "tags": ["Solicitudes"],
                "summary": "Resolve an approval link click",
                "description": "Opened from the supervisor's mail client; renders an HTML confirmation page.",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "code", "in": "query", "required": true, "type": "string"},
                    {"name": "action", "in": "query", "required": true, "type": "string", "enum": ["approve", "reject"]}
                ],
                "responses": {
                    "200": {"description": "Confirmation page"},
                    "400": {"description": "Invalid link page"}
                }
            }
        },
        "/solicitudes/dashboard": {
            "get": {
                "tags": ["Solicitudes"],
                "summary": "Load all board data in one call",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solicitudes/update-field": {
            "put": {
                "tags": ["Solicitudes"],
                "summary": "Update a single management field on a request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActualizarCampoRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Field not updatable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown request code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solicitudes/{code}/progress": {
            "get": {
                "tags": ["Solicitudes"],
                "summary": "Task completion summary for one request",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown request code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/actividades/add": {
            "post": {
                "tags": ["Actividades"],
                "summary": "Create a board task",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CrearActividadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/actividades/update-status": {
            "put": {
                "tags": ["Actividades"],
                "summary": "Patch a board task",
                "description": "Applies only the fields present in the payload; status moves re-derive the parent request state.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActualizarActividadRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown task", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/actividades/{taskId}": {
            "delete": {
                "tags": ["Actividades"],
                "summary": "Delete a board task",
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown task", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sprints": {
            "get": {
                "tags": ["Sprints"],
                "summary": "List sprints with associated task counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sprints"],
                "summary": "Create a sprint",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CrearSprintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sprints/{id}": {
            "get": {
                "tags": ["Sprints"],
                "summary": "Get sprint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown sprint", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Sprints"],
                "summary": "Patch sprint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActualizarSprintRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown sprint", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Sprints"],
                "summary": "Delete sprint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown sprint", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Tasks still assigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "NotificarRequest": {
            "type": "object",
            "required": ["solicitud", "destinatarios"],
            "properties": {
                "solicitud": {"$ref": "#/definitions/Solicitud"},
                "destinatarios": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Solicitud": {
            "type": "object",
            "properties": {
                "codigo_requerimiento": {"type": "string"},
                "nombre_proyecto": {"type": "string"},
                "nombre_completo": {"type": "string"},
                "correo_electronico": {"type": "string"},
                "correo_jefe_inmediato": {"type": "string"},
                "prioridad": {"type": "string", "enum": ["Alta", "Media", "Baja"]},
                "objetivo_justificacion": {"type": "string"},
                "descripcion_requerimiento": {"type": "string"},
                "archivos_adjuntos": {"type": "string"},
                "estado": {"type": "string"}
            }
        },
        "ActualizarCampoRequest": {
            "type": "object",
            "required": ["codigo_requerimiento", "campo"],
            "properties": {
                "codigo_requerimiento": {"type": "string"},
                "campo": {"type": "string", "enum": ["estado", "responsable_asignado", "prioridad_asignada", "observaciones_ds"]},
                "valor": {"type": "string"}
            }
        },
        "CrearActividadRequest": {
            "type": "object",
            "required": ["nombre_actividad"],
            "properties": {
                "nombre_actividad": {"type": "string"},
                "descripcion": {"type": "string"},
                "solicitud_codigo": {"type": "string"},
                "responsable_ds": {"type": "string"},
                "prioridad": {"type": "string", "enum": ["Alta", "Media", "Baja"]},
                "categoria": {"type": "string", "enum": ["desarrollo", "soporte", "cambio"]},
                "fecha_limite": {"type": "string", "format": "date"},
                "sprint_id": {"type": "integer"}
            }
        },
        "ActualizarActividadRequest": {
            "type": "object",
            "required": ["taskId"],
            "properties": {
                "taskId": {"type": "integer"},
                "newStatus": {"type": "string", "enum": ["Por Hacer", "En Curso", "Revisión", "Terminado"]},
                "nombre_actividad": {"type": "string"},
                "descripcion": {"type": "string"},
                "responsable_ds": {"type": "string"},
                "prioridad": {"type": "string"},
                "categoria": {"type": "string"},
                "fecha_limite": {"type": "string", "format": "date"},
                "sprint_id": {"type": "integer"}
            }
        },
        "CrearSprintRequest": {
            "type": "object",
            "required": ["nombre", "fecha_inicio", "fecha_fin"],
            "properties": {
                "nombre": {"type": "string"},
                "objetivo": {"type": "string"},
                "fecha_inicio": {"type": "string", "format": "date"},
                "fecha_fin": {"type": "string", "format": "date"},
                "estado": {"type": "string", "enum": ["planificado", "activo", "completado"]}
            }
        },
        "ActualizarSprintRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "objetivo": {"type": "string"},
                "fecha_inicio": {"type": "string", "format": "date"},
                "fecha_fin": {"type": "string", "format": "date"},
                "estado": {"type": "string", "enum": ["planificado", "activo", "completado"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "message": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
