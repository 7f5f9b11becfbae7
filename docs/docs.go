// Package docs registers the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/registrations": {
            "get": {
                "description": "Newest submissions first; email and phone are never exposed.",
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "Recent registrations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.RegistrationsResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/imports": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "With a multipart \"file\" the uploaded CSV is imported, otherwise the configured source file.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["imports"],
                "summary": "Run an import",
                "parameters": [
                    {"type": "file", "description": "Form export (CSV)", "name": "file", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ingest.Report"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/presenter.SourceErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ingest.Report": {
            "type": "object",
            "properties": {
                "loaded": {"type": "integer"},
                "message": {"type": "string"},
                "run_id": {"type": "string"},
                "source": {"type": "string"},
                "stats": {"$ref": "#/definitions/pipeline.Stats"}
            }
        },
        "pipeline.Stats": {
            "type": "object",
            "properties": {
                "duplicates": {"type": "integer"},
                "kept": {"type": "integer"},
                "matched_tokens": {"type": "integer"},
                "read": {"type": "integer"},
                "unknown_phones": {"type": "integer"},
                "unknown_timestamps": {"type": "integer"},
                "unmatched_tokens": {"type": "integer"}
            }
        },
        "presenter.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "presenter.SourceErrorResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "line": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "presenter.RegistrationsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/registration.Cleaned"}}
            }
        },
        "registration.Cleaned": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "nome_completo": {"type": "string"},
                "papel_atual_comunidade": {"type": "string"},
                "url_trilha_aguardando": {"type": "string"},
                "area_atuacao": {"type": "string"},
                "linguagem_frameworks": {"type": "string"},
                "disponibilidade_horario": {"type": "string"},
                "comprometimento_hackathon": {"type": "string"},
                "preparado_trabalhar_em_equipe": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Operator token from ` + "`etl token`" + `. Accepts \"Bearer <JWT>\" or \"<JWT>\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "hackathon-etl API",
	Description:      "Imports hackathon registration exports and serves the cleaned table.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
