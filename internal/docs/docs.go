// Package docs хранит сгенерированную swag-спецификацию API.
// Регенерация: swag init -g cmd/umldiagrams/main.go -o internal/docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/v1.DetailResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout (revoke token)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/users/signup": {
            "post": {
                "tags": ["users"],
                "summary": "Register new user",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.signupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "tags": ["users"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            },
            "patch": {
                "tags": ["users"],
                "summary": "Update current user profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.updateMeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/diagrams": {
            "get": {
                "tags": ["diagrams"],
                "summary": "List my diagrams",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.DiagramListItem"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            },
            "post": {
                "tags": ["diagrams"],
                "summary": "Create diagram",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/diagram.createRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Diagram"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/diagrams/{id}": {
            "get": {
                "tags": ["diagrams"],
                "summary": "Get own diagram",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Diagram"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            },
            "patch": {
                "tags": ["diagrams"],
                "summary": "Update own diagram",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/diagram.updateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Diagram"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            },
            "delete": {
                "tags": ["diagrams"],
                "summary": "Delete own diagram",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/diagrams/{id}/share-invite-user": {
            "post": {
                "tags": ["sharing"],
                "summary": "Share diagram with a user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/diagram.inviteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.CollaboratorInfo"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/v1.DetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/diagrams/public/{id}": {
            "get": {
                "tags": ["public"],
                "summary": "Get publicly shared diagram",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Diagram"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        },
        "/sharings": {
            "get": {
                "tags": ["sharings"],
                "summary": "List sharing records",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CollaboratorInfo"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/v1.DetailResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.loginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "user.signupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "user.updateMeRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "diagram.createRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "json": {"type": "object"},
                "description": {"type": "string"},
                "owner_id": {"type": "string"}
            }
        },
        "diagram.updateRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "json": {"type": "object"},
                "description": {"type": "string"},
                "owner_id": {"type": "string"}
            }
        },
        "diagram.inviteRequest": {
            "type": "object",
            "properties": {
                "user_email": {"type": "string"},
                "permission_level": {"type": "string", "enum": ["view-only", "view-copy", "view-edit"]}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role": {"type": "string"},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Diagram": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "json": {"type": "object"},
                "description": {"type": "string"},
                "owner_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.DiagramListItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "json": {"type": "object"},
                "description": {"type": "string"},
                "owner_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "is_public": {"type": "boolean"}
            }
        },
        "domain.CollaboratorInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "diagram_id": {"type": "string"},
                "shared_to": {"type": "string"},
                "permission_level": {"type": "string"},
                "shared_at": {"type": "string"}
            }
        },
        "v1.DetailResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "UML Diagrams API",
	Description:      "Хранение UML-диаграмм и совместный доступ к ним.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
