// Package docs registers the OpenAPI document served by gin-swagger at
// /swagger/*any when SWAGGER_ENABLED is set. Regenerate with:
//
//	swag init -g cmd/academic-api/main.go -o internal/docs
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
        "/api/v1/chat/ask": {
            "post": {
                "description": "Rate limited per client (user or IP). Identical prompts are answered from cache.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Ask the academic assistant",
                "parameters": [
                    {"description": "Question", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handlers.ChatAskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ChatAskResponse"},
                            "headers": {"X-Cache": {"type": "string", "description": "HIT or MISS"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/exams-chat/publish": {
            "post": {
                "description": "Normalizes the text, rejects duplicates of stored questions and applies the confidence gate. Low-confidence questions are stored and reported invalid.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Publish a generated question",
                "parameters": [
                    {"type": "string", "description": "Replay key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Candidate question", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handlers.PublishRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PublishResponse"},
                            "headers": {"Idempotency-Replayed": {"type": "string", "description": "true on replays"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/exams-chat/questions": {
            "get": {
                "description": "Newest first. Includes questions flagged invalid by the gate.",
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "List stored questions",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page (>=1)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (1-100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListQuestionsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/exams-chat/questions/{id}/promote": {
            "post": {
                "description": "Fails with 422 when the option count does not match the question type (4 for multiple_choice, 2 for true_false).",
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Promote a stored question to published",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Question"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "type": {"type": "string", "enum": ["multiple_choice", "true_false"]},
                "options": {"type": "array", "items": {"type": "string"}},
                "source": {"type": "string"},
                "confidence": {"type": "number"},
                "status": {"type": "string", "enum": ["generated", "invalid", "published"]},
                "created_at": {"type": "string"}
            }
        },
        "handlers.ChatAskRequest": {
            "type": "object",
            "required": ["context", "lang", "question"],
            "properties": {
                "question": {"type": "string", "example": "¿Qué es la recursividad?"},
                "lang": {"type": "string", "enum": ["es", "en"], "example": "es"},
                "context": {"type": "string", "enum": ["academic_general"], "example": "academic_general"}
            }
        },
        "handlers.ChatAskResponse": {
            "type": "object",
            "properties": {"answer": {"type": "string", "example": "La recursividad es..."}}
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"type": "string", "example": "bad_request"},
                "message": {"type": "string", "example": "question: required"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "handlers.ListQuestionsResponse": {
            "type": "object",
            "properties": {
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.Question"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.PublishRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "type": {"type": "string", "enum": ["multiple_choice", "true_false"]},
                "options": {"type": "array", "items": {"type": "string"}},
                "source": {"type": "string", "example": "ai"},
                "confidence": {"type": "number", "maximum": 1, "minimum": 0, "example": 0.82}
            }
        },
        "handlers.PublishResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "string", "enum": ["created", "duplicate", "invalid"]},
                "questionId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Academic Assistant API",
	Description:      "Academic chat assistant and generated exam question bank.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
