// Package docs registers the OpenAPI description served under /swagger.
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
        "/api/v1/analysis/run": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Writes the trigger record, runs the analysis worker and waits until the worker clears the record.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Run plant analysis",
                "parameters": [
                    {
                        "description": "Plant and sensor node",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.RunAnalysisRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "error=internal, message names the failing phase", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/monitoring/trigger": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["monitoring"],
                "summary": "Get pending trigger",
                "responses": {
                    "200": {"description": "trigger (null when none is pending)", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the trigger record. Workers call this when their analysis is done.",
                "produces": ["application/json"],
                "tags": ["monitoring"],
                "summary": "Clear trigger",
                "responses": {
                    "200": {"description": "status, trigger (the cleared record)", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/ws": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "WebSocket that pushes the trigger record every interval (?interval=2s or ?interval_ms=2000, max 10s).",
                "tags": ["monitoring"],
                "summary": "Trigger stream",
                "parameters": [
                    {"type": "string", "description": "Push interval as a Go duration", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Push interval in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/plants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "List plants",
                "responses": {
                    "200": {"description": "count, plants", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Add plant",
                "parameters": [
                    {"description": "Plant", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AddPlantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Plant"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/plants/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Get plant",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Plant"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/plants/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Used by the analysis worker to store its verdict (healthy, a disease label or Unknown).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Update plant status",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "id", "in": "path", "required": true},
                    {"description": "Verdict", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PlantStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List analysis events",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"enum": ["TRIGGERED", "WORKER_FAILED", "COMPLETED", "TIMEOUT", "ERROR", "CLEARED"], "type": "string", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.AddPlantRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Basil"},
                "sensorNode": {"type": "string", "example": "JSON"},
                "species": {"type": "string", "example": "Ocimum basilicum"}
            }
        },
        "handlers.PlantStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"}
            }
        },
        "handlers.RunAnalysisRequest": {
            "type": "object",
            "properties": {
                "plantId": {"type": "string", "example": "c0a8e4f2-6d1b-4c3e-9a57-1f2b3c4d5e6f"},
                "sensorNode": {"type": "string", "example": "JSON"}
            }
        },
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "internal"},
                "message": {"type": "string", "example": "analysis timed out: record still present after 30 attempts"}
            }
        },
        "models.AnalysisResult": {
            "type": "object",
            "properties": {
                "attempts": {"type": "integer"},
                "message": {"type": "string"},
                "requestId": {"type": "string"},
                "status": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "models.Plant": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "lastUpdated": {"type": "string"},
                "name": {"type": "string"},
                "sensorNode": {"type": "string"},
                "species": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Plant Monitor API",
	Description:      "Plant registry and on-demand AI health analysis.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
