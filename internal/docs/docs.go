// Package docs registers the OpenAPI document of the rating API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/presets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ratings"],
                "summary": "List game presets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PresetOutput"}}}
                }
            }
        },
        "/ratings/rate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ratings"],
                "summary": "Rate a match",
                "parameters": [
                    {"description": "Teams with ranks", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.MatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RateResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Numeric failure or no convergence", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/ratings/quality": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ratings"],
                "summary": "Match quality",
                "parameters": [
                    {"description": "Teams (ranks ignored)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.MatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.QualityResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/ratings/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ratings"],
                "summary": "Rate a batch of matches",
                "parameters": [
                    {"description": "Matches", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BatchResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/ratings/jobs": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Submit an async rating job",
                "parameters": [
                    {"description": "Teams with ranks", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.MatchRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.JobAccepted"}},
                    "503": {"description": "Queue full or async disabled", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/ratings/jobs/{jobId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Poll an async rating job",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "jobId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.JobResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "models.PlayerInput": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "mean": {"type": "number"},
                "std_dev": {"type": "number"},
                "weight": {"type": "number", "minimum": 0, "maximum": 1}
            }
        },
        "models.TeamInput": {
            "type": "object",
            "required": ["players"],
            "properties": {
                "players": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerInput"}},
                "rank": {"type": "integer", "minimum": 0}
            }
        },
        "models.GameOverride": {
            "type": "object",
            "properties": {
                "initial_mean": {"type": "number"},
                "initial_std_dev": {"type": "number"},
                "beta": {"type": "number"},
                "dynamics_factor": {"type": "number"},
                "draw_probability": {"type": "number"}
            }
        },
        "models.MatchRequest": {
            "type": "object",
            "required": ["teams"],
            "properties": {
                "match_id": {"type": "string"},
                "preset": {"type": "string"},
                "engine": {"type": "string", "enum": ["auto", "factorgraph", "twoteam", "elo-fide", "elo-gaussian"]},
                "game": {"$ref": "#/definitions/models.GameOverride"},
                "teams": {"type": "array", "minItems": 2, "items": {"$ref": "#/definitions/models.TeamInput"}}
            }
        },
        "models.RatingOutput": {
            "type": "object",
            "properties": {
                "mean": {"type": "number"},
                "std_dev": {"type": "number"},
                "conservative": {"type": "number"}
            }
        },
        "models.RateResponse": {
            "type": "object",
            "properties": {
                "match_id": {"type": "string"},
                "ratings": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.RatingOutput"}},
                "iterations": {"type": "integer"},
                "outcome_probability": {"type": "number"},
                "engine": {"type": "string"}
            }
        },
        "models.QualityResponse": {
            "type": "object",
            "properties": {
                "quality": {"type": "number"},
                "log_evidence": {"type": "number"},
                "engine": {"type": "string"}
            }
        },
        "models.BatchRequest": {
            "type": "object",
            "required": ["matches"],
            "properties": {
                "matches": {"type": "array", "items": {"$ref": "#/definitions/models.MatchRequest"}}
            }
        },
        "models.BatchItem": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "request_id": {"type": "string"},
                "result": {"$ref": "#/definitions/models.RateResponse"},
                "error": {"type": "string"}
            }
        },
        "models.BatchResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.BatchItem"}},
                "failed": {"type": "integer"}
            }
        },
        "models.JobAccepted": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.JobResult": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "done", "failed"]},
                "result": {"$ref": "#/definitions/models.RateResponse"},
                "error": {"type": "string"},
                "submitted_at": {"type": "string", "format": "date-time"},
                "completed_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.PresetOutput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "initial_mean": {"type": "number"},
                "initial_std_dev": {"type": "number"},
                "beta": {"type": "number"},
                "dynamics_factor": {"type": "number"},
                "draw_probability": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Rating API",
	Description:      "Bayesian skill ratings for matches between any number of teams.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
