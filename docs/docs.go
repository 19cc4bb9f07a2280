// Package docs registers the swagger spec served at /swagger/doc.json.
// Regenerate with `swag init` after changing handler annotations.
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Revoke the presented token",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user with an explicit role",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/users/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Fetch the caller's profile",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update the caller's profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user record",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user without borrow history",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/books": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "List books",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Create a book",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/books/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Update a book",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Delete a book without borrow history",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bulk-books": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Create many books, best-effort per item",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/borrow_records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["circulation"],
                "summary": "List borrow records joined with borrower and title",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["circulation"],
                "summary": "Record a borrow",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/borrow_records/{id}/return": {
            "put": {
                "produces": ["application/json"],
                "tags": ["circulation"],
                "summary": "Mark a record returned",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/borrow_records/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["circulation"],
                "summary": "Delete a borrow record",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/most-borrowed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Most borrowed books",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/active-users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Most active borrowers",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/overdue": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Overdue loans with computed fines",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/overdue/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["reports"],
                "summary": "Overdue report as CSV (utf8 or sjis)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/stats/snapshot": {
            "post": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Recompute and store today's stats snapshot",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/stats/previous": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Yesterday's stats snapshot",
                "responses": {"200": {"description": "OK"}}
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
	Title:            "Libra backend API",
	Description:      "Library-management backend: users, books, borrow records and reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
