// Package docs registers the Swagger document served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@learnhub.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a credentials account",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RegisterResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with email and password",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}
                }
            }
        },
        "/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Read the current session",
                "responses": {
                    "200": {"description": "Session, or null when signed out", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/auth/providers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "List sign-in methods",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/oauth/{provider}": {
            "get": {
                "tags": ["auth"],
                "summary": "Start an OAuth sign-in",
                "parameters": [
                    {"type": "string", "name": "provider", "in": "path", "required": true},
                    {"type": "string", "name": "callbackUrl", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirect to the provider"},
                    "404": {"description": "Unknown provider", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/oauth/{provider}/callback": {
            "get": {
                "tags": ["auth"],
                "summary": "Complete an OAuth sign-in",
                "parameters": [
                    {"type": "string", "name": "provider", "in": "path", "required": true},
                    {"type": "string", "name": "state", "in": "query", "required": true},
                    {"type": "string", "name": "code", "in": "query", "required": true}
                ],
                "responses": {
                    "302": {"description": "Signed in, redirect to the callback or landing page"},
                    "401": {"description": "Invalid state or failed exchange", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/courses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "List courses",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Create a course",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CourseCreatedResponse"}},
                    "400": {"description": "Invalid data provided.", "schema": {"$ref": "#/definitions/dto.CourseValidationResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "An internal server error occurred.", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "All dependencies reachable"},
                    "503": {"description": "At least one dependency is down"}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string"},
                "severity": {"type": "string", "enum": ["WARNING", "ERROR"]},
                "details": {}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "An internal server error occurred."}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Ada Lovelace"},
                "email": {"type": "string", "example": "ada@example.com"},
                "password": {"type": "string", "example": "s3cret-pass"}
            }
        },
        "dto.RegisterResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "User registered successfully"},
                "user": {"$ref": "#/definitions/dto.UserResponse"},
                "redirectUrl": {"type": "string", "example": "/student/dashboard"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "callbackUrl": {"type": "string", "example": "/student/dashboard"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/auth.SessionUser"},
                "token": {"type": "string"},
                "tokenType": {"type": "string", "example": "Bearer"},
                "expiresAt": {"type": "string"},
                "redirectUrl": {"type": "string"}
            }
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/auth.SessionUser"}
            }
        },
        "auth.SessionUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "admin"]},
                "avatar": {"type": "string"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "admin"]},
                "avatar": {"type": "string"},
                "provider": {"type": "string", "enum": ["credentials", "google", "github"]},
                "enrolledCourses": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "lastLogin": {"type": "string"}
            }
        },
        "dto.CreateCourseRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Intro to Go"},
                "description": {"type": "string", "example": "Learn Go from first principles."},
                "instructor": {"type": "string", "example": "Rob Pike"},
                "price": {"type": "number", "example": 49.99},
                "category": {"type": "string", "example": "Programming"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "thumbnailUrl": {"type": "string"},
                "syllabus": {"type": "string"}
            }
        },
        "dto.CourseCreatedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Course created successfully!"},
                "courseId": {"type": "string"}
            }
        },
        "dto.CourseValidationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Invalid data provided."},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/dto.ErrorDetail"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session token as \"Bearer <token>\"",
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
	Schemes:          []string{"http", "https"},
	Title:            "Learnhub API",
	Description:      "API for the Learnhub course platform: sign-in, role-gated dashboards and course management",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
