package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Scheduler API",
        "description": "Builds conflict-free university course schedules, ranks them against student preferences and lays out the weekly itinerary.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Schedule generation, scoring and itineraries"},
        {"name": "Preferences", "description": "Preference slider helpers"},
        {"name": "Open Sections", "description": "Registrar open section snapshot"},
        {"name": "Saved Schedules", "description": "Saved schedules and share links"},
        {"name": "Ops", "description": "Health and metrics"}
    ],
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate ranked schedules",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid working set", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/score": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Score an explicit schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/itinerary": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Build the weekly itinerary",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ItineraryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Proposal expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/itinerary/export": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Download the weekly itinerary",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ItineraryRequest"}}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/preferences/redistribute": {
            "post": {
                "tags": ["Preferences"],
                "summary": "Move one preference slider and rebalance the rest",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RedistributeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/open-sections": {
            "get": {
                "tags": ["Open Sections"],
                "summary": "Open section snapshot status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/open-sections/{id}": {
            "get": {
                "tags": ["Open Sections"],
                "summary": "Check whether a section is open",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/core-codes": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Known core requirement codes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor-ratings": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Ratings for catalog instructor names",
                "parameters": [
                    {"name": "names", "in": "query", "type": "string"},
                    {"name": "name", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/saved-schedules": {
            "get": {
                "tags": ["Saved Schedules"],
                "summary": "List saved schedules",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Saved Schedules"],
                "summary": "Save a schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Semester limit reached", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/saved-schedules/{id}": {
            "get": {
                "tags": ["Saved Schedules"],
                "summary": "Get saved schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Saved Schedules"],
                "summary": "Delete saved schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/saved-schedules/{id}/share": {
            "post": {
                "tags": ["Saved Schedules"],
                "summary": "Create a share link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shared/{token}": {
            "get": {
                "tags": ["Saved Schedules"],
                "summary": "Open a shared schedule",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Link expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Ops"],
                "summary": "Runtime metrics summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "MeetingTime": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday"]},
                "startMinute": {"type": "integer"},
                "endMinute": {"type": "integer"},
                "location": {"type": "string"},
                "mode": {"type": "string"}
            }
        },
        "Instructor": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "rating": {"type": "number"}
            }
        },
        "Section": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "campus": {"type": "string"},
                "sectionLabel": {"type": "string"},
                "instructors": {"type": "array", "items": {"$ref": "#/definitions/Instructor"}},
                "meetingTimes": {"type": "array", "items": {"$ref": "#/definitions/MeetingTime"}},
                "department": {"type": "string"},
                "classNumber": {"type": "string"},
                "credits": {"type": "number"},
                "coreRequirements": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}},
                "selectedSection": {"$ref": "#/definitions/Section"}
            }
        },
        "CoreRequirementBlock": {
            "type": "object",
            "properties": {
                "coreCode": {"type": "string"},
                "selectedCourse": {"$ref": "#/definitions/Course"},
                "candidates": {"type": "array", "items": {"$ref": "#/definitions/Course"}}
            }
        },
        "Preferences": {
            "type": "object",
            "properties": {
                "earliestStartMinute": {"type": "integer"},
                "latestEndMinute": {"type": "integer"},
                "preferredCampuses": {"type": "array", "items": {"type": "string"}},
                "minimumProfessorRating": {"type": "number"}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "coreBlocks": {"type": "array", "items": {"$ref": "#/definitions/CoreRequirementBlock"}},
                "preferences": {"$ref": "#/definitions/Preferences"},
                "randomizeCore": {"type": "boolean"},
                "seed": {"type": "integer"},
                "pinSelected": {"type": "boolean"},
                "limit": {"type": "integer"}
            }
        },
        "ScoreRequest": {
            "type": "object",
            "properties": {
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}},
                "preferences": {"$ref": "#/definitions/Preferences"}
            }
        },
        "ItineraryRequest": {
            "type": "object",
            "properties": {
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}},
                "proposalId": {"type": "string"},
                "rank": {"type": "integer"}
            }
        },
        "RedistributeRequest": {
            "type": "object",
            "required": ["values"],
            "properties": {
                "values": {"type": "array", "items": {"type": "integer"}},
                "index": {"type": "integer"},
                "value": {"type": "integer"}
            }
        },
        "SaveScheduleRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "semester": {"type": "string"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}},
                "proposalId": {"type": "string"},
                "rank": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
