// Package docs holds the OpenAPI document served at /swagger. Regenerate it
// with `swag init` after changing handler annotations.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a member account", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in and open a session", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Close the current session", "responses": {"204": {"description": "No Content"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current account", "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List accounts", "responses": {"200": {"description": "OK"}}}},
        "/books": {"get": {"tags": ["catalog"], "summary": "Search the catalog", "parameters": [{"type": "string", "name": "q", "in": "query"}, {"type": "integer", "name": "category", "in": "query"}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "page_size", "in": "query", "description": "default 10, over 100 is rejected"}], "responses": {"200": {"description": "OK"}, "400": {"description": "page_size over 100"}}}},
        "/books/{id}": {"get": {"tags": ["catalog"], "summary": "Book detail with authors and copies", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/categories": {"get": {"tags": ["catalog"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/admin/books": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create a book", "responses": {"201": {"description": "Created"}}}},
        "/admin/books/import": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Import books from CSV", "responses": {"200": {"description": "OK"}}}},
        "/admin/books/{id}/copies": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Add a physical copy", "responses": {"201": {"description": "Created"}}}},
        "/admin/categories": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create a category", "responses": {"201": {"description": "Created"}}}},
        "/admin/categories/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Get a category", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Update a category", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Disable a category", "responses": {"204": {"description": "No Content"}}}
        },
        "/loans": {"post": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Borrow a book", "responses": {"201": {"description": "Created"}, "409": {"description": "No copy available"}, "422": {"description": "Blocked by fines or loan limit"}}}},
        "/loans/{id}/return": {"post": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Return a borrowed book", "responses": {"200": {"description": "OK"}, "409": {"description": "Already returned"}}}},
        "/me/loans": {"get": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Open loans of the caller", "responses": {"200": {"description": "OK"}}}},
        "/me/history": {"get": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Loan history of the caller", "responses": {"200": {"description": "OK"}}}},
        "/admin/loans/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Get a loan", "responses": {"200": {"description": "OK"}}}},
        "/reservations": {"post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Reserve a book", "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate reservation"}}}},
        "/reservations/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Cancel a pending reservation", "responses": {"200": {"description": "OK"}}}},
        "/me/reservations": {"get": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Reservations of the caller", "responses": {"200": {"description": "OK"}}}},
        "/admin/fines/reconcile": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Mark overdue loans and accrue fines", "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Library metrics", "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/top-books": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Most borrowed books", "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/overdue": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Overdue loans", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Libris API",
	Description:      "Library backend: catalog, loans, fines, reservations and reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
