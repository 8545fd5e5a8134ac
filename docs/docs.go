// Package docs holds the OpenAPI document served at /swagger/doc.json.
// Regenerate it from the handler annotations with `swag init`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports the chord detection backend, Spotify and storage status",
                "produces": ["application/json"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Response"}}}
            }
        },
        "/analyze": {
            "post": {
                "description": "Detects or predicts the chord timeline of a YouTube video",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Analyze a video",
                "parameters": [{"description": "Video and options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/analysis.Request"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analyze.AnalyzeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/analyze/{videoId}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get a stored analysis",
                "parameters": [{"type": "string", "description": "YouTube video ID", "name": "videoId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analyze.AnalyzeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/songs": {
            "get": {
                "produces": ["application/json"],
                "summary": "List known songs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/timeline": {
            "post": {
                "description": "Repeats a chord pattern over a song. Strategies are varied, measured and fixed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Generate a timeline",
                "parameters": [{"description": "Pattern and timing", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/timeline.Timeline"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/timeline/lookup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Look up the current chord",
                "parameters": [{"description": "Timeline and playback time", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            }
        },
        "/timeline/adjust": {
            "post": {
                "description": "Renames or retimes one chord. Neighbouring chords are resized to keep the timeline contiguous.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Adjust a chord",
                "parameters": [{"description": "Timeline and change", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/timeline.Timeline"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/timeline/midi": {
            "post": {
                "description": "Writes block chords for every entry of the timeline",
                "consumes": ["application/json"],
                "produces": ["audio/midi"],
                "summary": "Export MIDI",
                "parameters": [{"description": "Timeline or video", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            }
        },
        "/favorites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "summary": "List favorites",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            }
        },
        "/favorites/{videoId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Get a favorite",
                "parameters": [{"type": "string", "name": "videoId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "summary": "Save a favorite",
                "parameters": [
                    {"type": "string", "name": "videoId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "summary": "Remove a favorite",
                "parameters": [{"type": "string", "name": "videoId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            }
        },
        "/sync/{videoId}": {
            "get": {
                "description": "Websocket. Send {\"time\": seconds, \"offset\": seconds} and receive the current and next chord.",
                "summary": "Sync playback",
                "parameters": [{"type": "string", "name": "videoId", "in": "path", "required": true}],
                "responses": {"101": {"description": "Switching Protocols"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}}
            }
        }
    },
    "definitions": {
        "analysis.AnalyzeOptions": {
            "type": "object",
            "properties": {"refresh": {"type": "boolean"}, "use_chord_api": {"type": "boolean"}}
        },
        "analysis.Request": {
            "type": "object",
            "properties": {
                "options": {"$ref": "#/definitions/analysis.AnalyzeOptions"},
                "title": {"type": "string"},
                "video_id": {"type": "string"}
            }
        },
        "analyze.AnalyzeResponse": {
            "type": "object",
            "properties": {"analysis": {"$ref": "#/definitions/chordlegend.SongAnalysis"}}
        },
        "chordlegend.SongAnalysis": {
            "type": "object",
            "properties": {
                "bpm": {"type": "number"},
                "chords": {"type": "array", "items": {"$ref": "#/definitions/timeline.Entry"}},
                "confidence": {"type": "number"},
                "created_at": {"type": "string"},
                "duration": {"type": "number"},
                "genres": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "string"},
                "key": {"type": "string"},
                "method": {"type": "string"},
                "song_title": {"type": "string"},
                "time_signature": {"type": "string"},
                "video_id": {"type": "string"}
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "cache": {"type": "string"},
                "chord_api": {"type": "boolean"},
                "favorites": {"type": "string"},
                "server": {"type": "boolean"},
                "songs": {"type": "integer"},
                "spotify": {"type": "boolean"}
            }
        },
        "timeline.Entry": {
            "type": "object",
            "properties": {
                "chord": {"type": "string"},
                "confidence": {"type": "number"},
                "duration": {"type": "number"},
                "source": {"type": "string"},
                "start_time": {"type": "number"}
            }
        },
        "timeline.Timeline": {
            "type": "object",
            "properties": {
                "chords": {"type": "array", "items": {"$ref": "#/definitions/timeline.Entry"}},
                "duration": {"type": "number"}
            }
        },
        "util.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "chordlegend",
	Description:      "Chord timelines for YouTube videos",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
