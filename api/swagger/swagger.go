package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Punyashlok Ahilyabai Holkar Award API",
        "description": "Award nomination workflow for Maharashtra Water User Associations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Session and token management"},
        {"name": "Nominations", "description": "Award nomination workflow"},
        {"name": "Assessment", "description": "Self-assessment questionnaire"},
        {"name": "WUAs", "description": "Water User Association registry"},
        {"name": "Users", "description": "Principal management"},
        {"name": "Dashboard", "description": "Pipeline overview"},
        {"name": "Reports", "description": "Asynchronous exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/nominations": {
            "get": {
                "tags": ["Nominations"],
                "summary": "List nominations visible to the caller",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "stage", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Nominations"],
                "summary": "Open a draft nomination",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateNominationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate nomination"}
                }
            }
        },
        "/nominations/{id}": {
            "get": {
                "tags": ["Nominations"],
                "summary": "Get nomination with decision trail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/nominations/{id}/submit": {
            "post": {
                "tags": ["Nominations"],
                "summary": "Submit self-assessment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitSelfAssessmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/nominations/{id}/decision": {
            "post": {
                "tags": ["Nominations"],
                "summary": "Record committee decision",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitteeDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state or concurrent decision"}
                }
            }
        },
        "/assessment/rubric": {
            "get": {
                "tags": ["Assessment"],
                "summary": "Self-assessment questionnaire rubric",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Pipeline overview for a year",
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue report generation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/status/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download rendered report",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateNominationRequest": {
            "type": "object",
            "properties": {
                "wua_id": {"type": "string"},
                "application_year": {"type": "integer"},
                "category": {"type": "string", "enum": ["MAJOR", "MINOR"]}
            },
            "required": ["wua_id", "application_year", "category"]
        },
        "SubmitSelfAssessmentRequest": {
            "type": "object",
            "properties": {
                "responses": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SelfAssessmentResponse"}
                }
            },
            "required": ["responses"]
        },
        "SelfAssessmentResponse": {
            "type": "object",
            "properties": {
                "question_id": {"type": "string"},
                "value": {"type": "integer"}
            },
            "required": ["question_id", "value"]
        },
        "CommitteeDecisionRequest": {
            "type": "object",
            "properties": {
                "stage": {"type": "string", "enum": ["circle_committee", "corporation_committee", "state_committee"]},
                "decision": {"type": "string", "enum": ["approved", "rejected"]},
                "remarks": {"type": "string"},
                "circle_score": {"type": "integer"},
                "scores": {
                    "type": "array",
                    "items": {"type": "integer"}
                }
            },
            "required": ["stage", "decision", "remarks"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["winners", "pipeline", "certificate"]},
                "year": {"type": "integer"},
                "nomination_id": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "year", "format"]
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
