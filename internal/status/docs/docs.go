// Package docs is the generated Swagger document for the status
// endpoint, in the shape swaggo/swag emits via `swag init`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "fqdnfilterd status API",
        "description": "Read-only diagnostics surface: process health, classification counters, and recent audit entries. Never mutates filter state; ipctl remains the only mutation path.",
        "version": "1.0"
    },
    "basePath": "{{ .BasePath }}",
    "paths": {
        "/healthz": {
            "get": {
                "summary": "Process health",
                "description": "Uptime, RSS/CPU, goroutine count, and instance id.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/stats": {
            "get": {
                "summary": "Classification counters",
                "description": "Cumulative allow/deny/no-check/error counts since process start.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/audit": {
            "get": {
                "summary": "Recent audit entries",
                "description": "The most recent resolved events persisted by the audit store, or an empty list when the audit store is disabled.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger metadata for the status API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "fqdnfilterd status API",
	Description:      "Read-only diagnostics surface for the local DNS filter.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
