// Package api holds the Swagger document served at /swagger.
// Regenerate it from the handler annotations with `mage swagger`.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/localnerve/ojt-tracker",
            "email": "info@localnerve.com"
        },
        "license": {
            "name": "AGPL-3.0",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/activity": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["Activity"], "summary": "Recent activity", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["Activity"], "summary": "Record activity", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "entries", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/services.ActivityEntry"}}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/categories": {
            "get": {"tags": ["Lookups"], "summary": "List categories", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}}}
        },
        "/check_auth": {
            "get": {"tags": ["Auth"], "summary": "Session check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AuthStatus"}}}}
        },
        "/delete_user": {
            "post": {"security": [{"CookieAuth": []}], "tags": ["Admin"], "summary": "Delete a user", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DeleteUserInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/documents": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["Documents"], "summary": "List documents", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["Documents"], "summary": "Upload a document", "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "formData"},
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData"},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}},
            "delete": {"security": [{"CookieAuth": []}], "tags": ["Documents"], "summary": "Delete a document", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/export/tasks": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["Progress"], "summary": "Export the OJT log", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "integer", "name": "user_id", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        },
        "/get_users": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["Admin"], "summary": "List users", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/health": {
            "get": {"tags": ["Ops"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/services.HealthCheckResult"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/services.HealthCheckResult"}}}}
        },
        "/login": {
            "post": {"tags": ["Auth"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/logout": {
            "post": {"tags": ["Auth"], "summary": "Log out", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}}}
        },
        "/priorities": {
            "get": {"tags": ["Lookups"], "summary": "List priorities", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}}}
        },
        "/progress": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["Progress"], "summary": "Progress report", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "query"},
                    {"type": "boolean", "name": "include_empty", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}}}
        },
        "/signup": {
            "post": {"tags": ["Auth"], "summary": "Create an account", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.SignupInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/statuses": {
            "get": {"tags": ["Lookups"], "summary": "List task statuses", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}}}
        },
        "/tasks": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["Tasks"], "summary": "List or get tasks", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "action", "in": "query", "required": true},
                    {"type": "integer", "name": "user_id", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "category", "description": "Category filter (category_id is accepted as an alias)", "in": "query"},
                    {"type": "integer", "name": "id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["Tasks"], "summary": "Create a task", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.TaskInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}},
            "put": {"security": [{"CookieAuth": []}], "tags": ["Tasks"], "summary": "Update a task", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "query", "required": true},
                    {"name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.TaskPatch"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}},
            "delete": {"security": [{"CookieAuth": []}], "tags": ["Tasks"], "summary": "Delete a task", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        },
        "/update_user": {
            "post": {"security": [{"CookieAuth": []}], "tags": ["Admin"], "summary": "Update a user", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UserPatch"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponseStruct"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}}}
        }
    },
    "definitions": {
        "handlers.AuthResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "user": {"$ref": "#/definitions/services.SessionUser"}}},
        "handlers.AuthStatus": {"type": "object", "properties": {"authenticated": {"type": "boolean"}, "user": {"$ref": "#/definitions/services.SessionUser"}}},
        "handlers.DeleteUserInput": {"type": "object", "properties": {"userId": {"type": "integer"}}},
        "services.ActivityEntry": {"type": "object", "required": ["action_type", "user_id"], "properties": {"user_id": {"type": "integer"}, "task_id": {"type": "integer"}, "action_type": {"type": "string", "maxLength": 50}, "description": {"type": "string"}, "metadata": {"type": "object"}}},
        "services.HealthCheckResult": {"type": "object", "properties": {"status": {"type": "string"}, "database": {"type": "string"}, "storage": {"type": "string"}, "details": {"type": "object", "additionalProperties": {"type": "string"}}, "error": {"type": "string"}}},
        "services.LoginInput": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "remember": {"type": "boolean"}}},
        "services.SessionUser": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "email": {"type": "string"}, "full_name": {"type": "string"}, "role": {"type": "string"}}},
        "services.SignupInput": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "fullName": {"type": "string"}}},
        "services.TaskInput": {"type": "object", "required": ["title"], "properties": {"user_id": {"type": "integer"}, "title": {"type": "string", "maxLength": 255}, "description": {"type": "string"}, "category_id": {"type": "integer"}, "priority_id": {"type": "integer"}, "status_id": {"type": "integer"}, "due_date": {"type": "string", "format": "date"}, "estimated_hours": {"type": "number"}, "date_performed": {"type": "string", "format": "date"}, "hours_rendered": {"type": "number"}, "department": {"type": "string"}, "supervisor": {"type": "string"}, "remarks": {"type": "string"}, "document_id": {"type": "integer"}}},
        "services.TaskPatch": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "category_id": {"type": "integer"}, "priority_id": {"type": "integer"}, "status_id": {"type": "integer"}, "due_date": {"type": "string", "format": "date"}, "estimated_hours": {"type": "number"}, "actual_hours": {"type": "number"}, "completion_percentage": {"type": "integer"}, "date_performed": {"type": "string", "format": "date"}, "hours_rendered": {"type": "number"}, "department": {"type": "string"}, "supervisor": {"type": "string"}, "remarks": {"type": "string"}, "document_id": {"type": "integer"}}},
        "services.UserPatch": {"type": "object", "properties": {"userId": {"type": "integer"}, "fullName": {"type": "string"}, "email": {"type": "string"}, "username": {"type": "string"}, "role": {"type": "string"}, "userType": {"type": "string"}, "isActive": {"type": "boolean"}, "password": {"type": "string"}}},
        "utils.ErrorResponseStruct": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "status": {"type": "integer"}, "type": {"type": "string"}, "timestamp": {"type": "string"}, "url": {"type": "string"}}},
        "utils.SuccessResponseStruct": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}}}
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "ojt_session", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "OJT Tracker API",
	Description:      "On-the-job training task tracker with progress reporting",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
