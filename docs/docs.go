// Package docs registers the Swagger document served at /swagger.
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
                "description": "Returns service health status",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/exchanges": {
            "get": {
                "description": "Lists every exchange with its stocks and formatted prices",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "List exchanges",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"exchanges": {"type": "array", "items": {"$ref": "#/definitions/handler.ExchangeResponse"}}}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/exchanges/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Get one exchange",
                "parameters": [{"type": "string", "description": "Exchange code", "name": "code", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ExchangeResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/sessions": {
            "post": {
                "description": "Creates a session seeded with the welcome message",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Start a conversation",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/sessions/{id}": {
            "get": {
                "description": "Returns the message log, the active message and whether the assistant is typing",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get conversation state",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "End a conversation",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/sessions/{id}/options": {
            "post": {
                "description": "Selects an option of the active message. The reply arrives after the debounce and typing delays; poll the session or use the stream.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Choose an option",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Message id and option index", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChooseRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/sessions/{id}/stream": {
            "get": {
                "description": "Upgrades to a WebSocket that receives a SessionResponse after every state change, starting with the current state",
                "tags": ["sessions"],
                "summary": "Stream conversation state",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.ChooseRequest": {
            "type": "object",
            "required": ["message_id", "option"],
            "properties": {
                "message_id": {"type": "integer"},
                "option": {"type": "integer"}
            }
        },
        "handler.StockResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "string"},
                "formatted": {"type": "string"}
            }
        },
        "handler.ExchangeResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "stocks": {"type": "array", "items": {"$ref": "#/definitions/handler.StockResponse"}}
            }
        },
        "domain.Action": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "exchange_code": {"type": "string"},
                "stock_code": {"type": "string"}
            }
        },
        "domain.Option": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "action": {"$ref": "#/definitions/domain.Action"}
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "origin": {"type": "string"},
                "text": {"type": "string"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/domain.Option"}},
                "created_at": {"type": "string"}
            }
        },
        "handler.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}},
                "active_message_id": {"type": "integer"},
                "pending": {"type": "boolean"},
                "armed": {"type": "boolean"},
                "generation": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stock Assistant API",
	Description:      "Guided stock price conversations over HTTP and WebSocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
