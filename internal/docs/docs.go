// Package docs holds the Swagger spec served at /swagger. The checked-in
// template only carries the API info and security scheme; `go generate
// ./internal/docs` rebuilds it with every annotated route and must run before
// release builds.
package docs

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.4 init --parseInternal -d ../.. -g cmd/api/main.go -o .

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
    "paths": {},
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Shared API key configured with API_KEY.",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "POW Cost API",
	Description:      "Cost catalog, Program of Works projects and cost summaries for construction estimates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
