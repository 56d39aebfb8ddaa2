package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Weekly class timetable generation with teacher clash avoidance",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Projects",
            "description": "Project import, export and persistence"
        },
        {
            "name": "Generation",
            "description": "Timetable generation jobs"
        },
        {
            "name": "Timetables",
            "description": "Per-class views and exports"
        },
        {
            "name": "Edits",
            "description": "Manual timetable edits"
        },
        {
            "name": "Observability",
            "description": "Metrics"
        }
    ],
    "paths": {
        "/projects": {
            "get": {
                "tags": [
                    "Projects"
                ],
                "summary": "List projects",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Projects"
                ],
                "summary": "Import a project",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/Project"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}": {
            "get": {
                "tags": [
                    "Projects"
                ],
                "summary": "Export the current state of a project",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/save": {
            "post": {
                "tags": [
                    "Projects"
                ],
                "summary": "Persist a project snapshot",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Version conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Persistence disabled",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/clashes": {
            "get": {
                "tags": [
                    "Projects"
                ],
                "summary": "Report teacher clashes across committed timetables",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/generate": {
            "post": {
                "tags": [
                    "Generation"
                ],
                "summary": "Queue regeneration of every class",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Job in flight",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/timetable": {
            "get": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Weekly grid of a class",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/remainder": {
            "get": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Unplaced periods of a class",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/generate": {
            "post": {
                "tags": [
                    "Generation"
                ],
                "summary": "Queue generation of one class",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Job in flight",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/lock": {
            "post": {
                "tags": [
                    "Edits"
                ],
                "summary": "Pin a placed entry to its window",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EntryRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/unlock": {
            "post": {
                "tags": [
                    "Edits"
                ],
                "summary": "Release the lock of a placed entry",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EntryRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/delete": {
            "post": {
                "tags": [
                    "Edits"
                ],
                "summary": "Move a placed entry into the remainder",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EntryRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/swap": {
            "post": {
                "tags": [
                    "Edits"
                ],
                "summary": "Swap two placed entries of equal width",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SwapRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Daily quota violated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/place": {
            "post": {
                "tags": [
                    "Edits"
                ],
                "summary": "Place a remainder period onto a Free entry",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PlaceRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Daily quota violated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/projects/{id}/classes/{classId}/export": {
            "get": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Download a class timetable",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "path",
                        "name": "classId",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/jobs/{jobId}": {
            "get": {
                "tags": [
                    "Generation"
                ],
                "summary": "Generation job status and progress",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "jobId",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Generation, cache and request counters",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Project": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "days": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "teachers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Teacher"
                    }
                },
                "levels": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Level"
                    }
                }
            },
            "required": [
                "name",
                "days",
                "levels"
            ]
        },
        "Teacher": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "id"
            ]
        },
        "Level": {
            "type": "object",
            "properties": {
                "index": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "classes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Class"
                    }
                },
                "subjects": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Subject"
                    }
                }
            },
            "required": [
                "classes"
            ]
        },
        "Class": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "periodsPerDay": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "breakPeriods": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "generated": {
                    "type": "boolean"
                },
                "placements": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Placement"
                    }
                },
                "remainder": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/RemainderEntry"
                    }
                }
            },
            "required": [
                "id",
                "periodsPerDay",
                "breakPeriods"
            ]
        },
        "Subject": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "timings": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SubjectTiming"
                    }
                }
            },
            "required": [
                "name",
                "timings"
            ]
        },
        "SubjectTiming": {
            "type": "object",
            "properties": {
                "classId": {
                    "type": "string"
                },
                "teacherId": {
                    "type": "string"
                },
                "dailyQuota": {
                    "type": "integer"
                },
                "weeklyQuota": {
                    "type": "integer"
                },
                "lock": {
                    "$ref": "#/definitions/Lock"
                }
            },
            "required": [
                "classId"
            ]
        },
        "Lock": {
            "type": "object",
            "properties": {
                "day": {
                    "type": "integer"
                },
                "start": {
                    "type": "integer"
                },
                "length": {
                    "type": "integer"
                }
            }
        },
        "Placement": {
            "type": "object",
            "properties": {
                "day": {
                    "type": "integer"
                },
                "start": {
                    "type": "integer"
                },
                "width": {
                    "type": "integer"
                },
                "subject": {
                    "type": "string"
                },
                "locked": {
                    "type": "boolean"
                }
            }
        },
        "RemainderEntry": {
            "type": "object",
            "properties": {
                "subject": {
                    "type": "string"
                },
                "periods": {
                    "type": "integer"
                }
            }
        },
        "EntryRequest": {
            "type": "object",
            "properties": {
                "day": {
                    "type": "integer"
                },
                "index": {
                    "type": "integer"
                }
            }
        },
        "SwapRequest": {
            "type": "object",
            "properties": {
                "dayA": {
                    "type": "integer"
                },
                "indexA": {
                    "type": "integer"
                },
                "dayB": {
                    "type": "integer"
                },
                "indexB": {
                    "type": "integer"
                }
            }
        },
        "PlaceRequest": {
            "type": "object",
            "properties": {
                "remainderIndex": {
                    "type": "integer"
                },
                "day": {
                    "type": "integer"
                },
                "index": {
                    "type": "integer"
                }
            }
        },
        "GenerationJob": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "project_id": {
                    "type": "string"
                },
                "class_id": {
                    "type": "string"
                },
                "scope": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "placed": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                },
                "request_id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "started_at": {
                    "type": "string"
                },
                "finished_at": {
                    "type": "string"
                }
            }
        },
        "SystemMetrics": {
            "type": "object",
            "properties": {
                "queue_pending": {
                    "type": "integer"
                },
                "queue_running": {
                    "type": "integer"
                },
                "jobs_processed": {
                    "type": "integer"
                },
                "jobs_failed": {
                    "type": "integer"
                },
                "generations": {
                    "type": "integer"
                },
                "best_effort_generations": {
                    "type": "integer"
                },
                "teacher_clashes": {
                    "type": "integer"
                },
                "cache_hit_ratio": {
                    "type": "number"
                },
                "cache_hits": {
                    "type": "integer"
                },
                "cache_misses": {
                    "type": "integer"
                },
                "requests_total": {
                    "type": "integer"
                },
                "average_request_duration_ms": {
                    "type": "number"
                },
                "db_query_count": {
                    "type": "integer"
                },
                "average_db_query_duration_ms": {
                    "type": "number"
                },
                "goroutines": {
                    "type": "integer"
                },
                "generated_at": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
