// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go --parseInternal
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
        "/formations": {
            "get": {"tags": ["formations"], "summary": "List active formations", "produces": ["application/json"], "responses": {"200": {"description": "Formations retrieved"}}},
            "post": {"tags": ["formations"], "summary": "Create a formation", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Formation created"}, "400": {"description": "Validation failed"}, "409": {"description": "Slug already used"}}}
        },
        "/formations/admin": {
            "get": {"tags": ["formations"], "summary": "List formations for administration", "produces": ["application/json"], "responses": {"200": {"description": "Formations retrieved"}}}
        },
        "/formations/search": {
            "get": {"tags": ["formations"], "summary": "Search formations", "produces": ["application/json"], "responses": {"200": {"description": "Search results"}, "429": {"description": "Too many requests"}}}
        },
        "/formations/selection": {
            "get": {"tags": ["formations"], "summary": "Formation pick-list", "produces": ["application/json"], "responses": {"200": {"description": "Selection retrieved"}}}
        },
        "/formations/slug/{slug}": {
            "get": {"tags": ["formations"], "summary": "Get formation by slug", "produces": ["application/json"], "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "Formation retrieved"}, "404": {"description": "Formation not found"}}}
        },
        "/formations/{id}": {
            "get": {"tags": ["formations"], "summary": "Get formation by ID", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Formation retrieved"}, "404": {"description": "Formation not found"}}},
            "put": {"tags": ["formations"], "summary": "Update a formation", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Formation updated"}, "404": {"description": "Formation not found"}}},
            "delete": {"tags": ["formations"], "summary": "Delete a formation", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Formation deleted"}, "404": {"description": "Formation not found"}}}
        },
        "/gallery": {
            "post": {"tags": ["gallery"], "summary": "Create gallery image", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Image created"}, "400": {"description": "Validation failed"}}}
        },
        "/gallery/home-images": {
            "get": {"tags": ["gallery"], "summary": "Home page images", "produces": ["application/json"], "responses": {"200": {"description": "Latest public images"}}}
        },
        "/gallery/paged": {
            "get": {"tags": ["gallery"], "summary": "Public gallery", "produces": ["application/json"], "responses": {"200": {"description": "Public images"}}}
        },
        "/gallery/admin/paged": {
            "get": {"tags": ["gallery"], "summary": "Gallery administration listing", "produces": ["application/json"], "responses": {"200": {"description": "All images"}}}
        },
        "/gallery/admin/by-formation-nom-paged": {
            "get": {"tags": ["gallery"], "summary": "Gallery administration search by formation name", "produces": ["application/json"], "responses": {"200": {"description": "Matching images"}}}
        },
        "/gallery/admin/by-category": {
            "get": {"tags": ["gallery"], "summary": "Gallery administration filter by category", "produces": ["application/json"], "responses": {"200": {"description": "Matching images"}, "400": {"description": "Unknown category"}}}
        },
        "/gallery/by-formation-nom-paged": {
            "get": {"tags": ["gallery"], "summary": "Gallery by formation name", "produces": ["application/json"], "responses": {"200": {"description": "Matching images"}}}
        },
        "/gallery/by-category": {
            "get": {"tags": ["gallery"], "summary": "Gallery by category", "produces": ["application/json"], "responses": {"200": {"description": "Matching images"}, "400": {"description": "Unknown category"}}}
        },
        "/gallery/{id}": {
            "get": {"tags": ["gallery"], "summary": "Get gallery image", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Image retrieved"}, "404": {"description": "Image not found"}}},
            "put": {"tags": ["gallery"], "summary": "Update gallery image", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Image updated"}, "404": {"description": "Image not found"}}},
            "delete": {"tags": ["gallery"], "summary": "Delete gallery image", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Image deleted"}, "404": {"description": "Image not found"}}}
        },
        "/messages": {
            "get": {"tags": ["messages"], "summary": "List messages", "produces": ["application/json"], "responses": {"200": {"description": "Messages retrieved"}, "400": {"description": "Unknown type"}}}
        },
        "/messages/pre-inscription": {
            "post": {"tags": ["messages"], "summary": "Pre-register to a formation", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Pre-inscription recorded"}, "400": {"description": "Validation failed"}}}
        },
        "/messages/contact": {
            "post": {"tags": ["messages"], "summary": "Send a contact message", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Message recorded"}, "400": {"description": "Validation failed"}, "429": {"description": "Too many requests"}}}
        },
        "/newsletter/subscribe": {
            "post": {"tags": ["newsletter"], "summary": "Subscribe to the newsletter", "consumes": ["application/json"], "produces": ["text/plain"], "responses": {"200": {"description": "Confirmation message"}, "400": {"description": "Invalid email"}, "409": {"description": "Already subscribed"}}}
        },
        "/assets/upload": {
            "post": {"tags": ["assets"], "summary": "Upload an image", "consumes": ["multipart/form-data"], "produces": ["application/json"], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}, {"type": "string", "name": "upload_preset", "in": "formData"}], "responses": {"200": {"description": "Stored asset"}, "400": {"description": "Missing or unsupported file"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Vitrine API",
	Description:      "Formation catalog, photo gallery and public forms of the institute.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
