// Package docs registers the OpenAPI document served at /swagger/index.html.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/wallpaper/{token}/image.png": {
            "get": {
                "description": "Renders the current wallpaper of a token. Never cached.",
                "produces": ["image/png"],
                "tags": ["wallpaper"],
                "summary": "Public wallpaper image",
                "parameters": [
                    {"type": "string", "description": "Wallpaper token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/wallpaper/{token}/data": {
            "get": {
                "description": "Settings, habits with logs, goals, reminders and derived stats for client-side rendering.",
                "produces": ["application/json"],
                "tags": ["wallpaper"],
                "summary": "Wallpaper data bundle",
                "parameters": [
                    {"type": "string", "description": "Wallpaper token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/wallpaper/{token}/ops": {
            "get": {
                "description": "The ordered draw calls of the public wallpaper, in canvas pixels.",
                "produces": ["application/json"],
                "tags": ["wallpaper"],
                "summary": "Wallpaper draw operations",
                "parameters": [
                    {"type": "string", "description": "Wallpaper token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/wallpaper/bundle": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["wallpaper"],
                "summary": "Own data bundle",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/preview": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Renders unsaved settings exactly as the public image will look once saved. Drafts a save would reject are a 400.",
                "consumes": ["application/json"],
                "produces": ["image/png"],
                "tags": ["preview"],
                "summary": "Render a settings draft",
                "parameters": [
                    {"description": "Settings draft", "name": "draft", "in": "body", "required": true, "schema": {"type": "object"}},
                    {"type": "boolean", "description": "Draw the clock overlay", "name": "clock", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/preview/live": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Websocket. Send {\"type\":\"draft\",\"settings\":{...}} and {\"type\":\"visible\",\"visible\":bool}; receive frame and settings_saved messages.",
                "tags": ["preview"],
                "summary": "Live preview channel",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/api/v1/wallpaper/settings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Wallpaper settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Partial update; omitted fields keep their value. Open live previews re-render.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update wallpaper settings",
                "parameters": [
                    {"description": "Changed fields", "name": "settings", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/wallpaper/token": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The previous token stops working immediately. The token is shown only once.",
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Issue a new public wallpaper token",
                "responses": {"201": {"description": "Created"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Kanso Wallpaper API",
	Description:      "Life-calendar wallpaper rendering: public snapshot images, data bundles and live previews.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
