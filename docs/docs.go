// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/results_api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "Apache 2.0",
            "url": "https://opensource.org/licenses/Apache-2.0"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/runs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List runs",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/router.RunListItem"}
                        }
                    }
                }
            },
            "post": {
                "description": "Loads result files, aggregates them and evaluates errors against the reference table",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Run the results pipeline",
                "parameters": [
                    {
                        "description": "Pipeline configuration",
                        "name": "config",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/spec.Config"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/router.RunResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "description": "Returns the run document as JSON, or the summary table as csv, xlsx or a text table",
                "produces": ["application/json", "text/csv", "text/plain"],
                "tags": ["runs"],
                "summary": "Get a run summary",
                "parameters": [
                    {"type": "string", "description": "Run id", "name": "id", "in": "path", "required": true},
                    {
                        "enum": ["json", "csv", "xlsx", "table"],
                        "type": "string",
                        "description": "Output format",
                        "name": "format",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/report.Document"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/runs/{id}/diagnostics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get run diagnostics",
                "parameters": [
                    {"type": "string", "description": "Run id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/report.Diagnostics"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "report.Diagnostics": {
            "type": "object",
            "properties": {
                "matched_files": {"type": "integer"},
                "loaded_rows": {"type": "integer"},
                "failed_files": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/report.FailedFile"}
                },
                "limit": {"type": "integer"},
                "truncated_groups": {"type": "array", "items": {"type": "string"}},
                "unmatched_groups": {"type": "array", "items": {"type": "string"}},
                "undefined_groups": {"type": "array", "items": {"type": "string"}},
                "duration": {"type": "integer"}
            }
        },
        "report.Distribution": {
            "type": "object",
            "properties": {
                "min": {"type": "number"},
                "q1": {"type": "number"},
                "median": {"type": "number"},
                "q3": {"type": "number"},
                "max": {"type": "number"}
            }
        },
        "report.Document": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "created_at": {"type": "string"},
                "summary": {"$ref": "#/definitions/report.SummaryTable"},
                "diagnostics": {"$ref": "#/definitions/report.Diagnostics"}
            }
        },
        "report.Extra": {
            "type": "object",
            "required": ["column"],
            "properties": {
                "column": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "report.ExtraValue": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "mean": {"type": "number"},
                "std": {"type": "number"}
            }
        },
        "report.FailedFile": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "report.Row": {
            "type": "object",
            "properties": {
                "key": {"type": "array", "items": {"type": "string"}},
                "count": {"type": "integer"},
                "rows": {"type": "integer"},
                "correct_answer": {"type": "number"},
                "mean_value": {"type": "number"},
                "std_value": {"type": "number"},
                "mean_absolute_error": {"type": "number"},
                "mean_relative_error_percent": {"type": "number"},
                "distribution": {"$ref": "#/definitions/report.Distribution"},
                "extras": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/report.ExtraValue"}
                }
            }
        },
        "report.SummaryTable": {
            "type": "object",
            "properties": {
                "key_columns": {"type": "array", "items": {"type": "string"}},
                "metric": {"type": "string"},
                "extras": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/report.Extra"}
                },
                "has_reference": {"type": "boolean"},
                "quantiles": {"type": "boolean"},
                "rows": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/report.Row"}
                }
            }
        },
        "router.RunListItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created_at": {"type": "string"},
                "rows": {"type": "integer"}
            }
        },
        "router.RunResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "rows": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/report.Row"}
                },
                "diagnostics": {"$ref": "#/definitions/report.Diagnostics"},
                "sink_error": {"type": "string"}
            }
        },
        "schema.Column": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["int", "float", "string"]}
            }
        },
        "spec.Aggregation": {
            "type": "object",
            "required": ["keys", "metric"],
            "properties": {
                "keys": {"type": "array", "items": {"type": "string"}},
                "metric": {"type": "string"},
                "extras": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/report.Extra"}
                },
                "limit": {"type": "integer", "minimum": 0},
                "quantiles": {"type": "boolean"},
                "best": {"type": "boolean"}
            }
        },
        "spec.Config": {
            "type": "object",
            "properties": {
                "input": {"$ref": "#/definitions/spec.Input"},
                "derived": {"type": "array", "items": {"type": "string"}},
                "aggregation": {"$ref": "#/definitions/spec.Aggregation"},
                "reference": {"$ref": "#/definitions/spec.Reference"},
                "output": {"$ref": "#/definitions/spec.Output"}
            }
        },
        "spec.Input": {
            "type": "object",
            "properties": {
                "pattern": {"type": "string"},
                "paths": {"type": "array", "items": {"type": "string"}},
                "schema": {"type": "string", "enum": ["exact", "tabu", "ga", "custom"]},
                "columns": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/schema.Column"}
                },
                "workers": {"type": "integer", "maximum": 64, "minimum": 0}
            }
        },
        "spec.Output": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "json", "xlsx", "table"]}
            }
        },
        "spec.Reference": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "file": {"type": "string"},
                "values": {"type": "object", "additionalProperties": {"type": "number"}},
                "default": {"type": "boolean"},
                "database": {"type": "boolean"},
                "strict": {"type": "boolean"},
                "include_undefined": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "TSP Results API",
	Description:      "Aggregates TSP solver result logs and reports error against known optima",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
