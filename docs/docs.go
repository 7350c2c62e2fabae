// Package docs registers the OpenAPI document served at /swagger/*.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with email and password",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Describe the current session",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs": {
            "get": {
                "tags": ["jobs"],
                "summary": "List the caller's jobs",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["jobs"],
                "summary": "Create a new job draft",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/jobs/{id}": {
            "get": {
                "tags": ["jobs"],
                "summary": "Get a job",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "tags": ["jobs"],
                "summary": "Update a job",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["jobs"],
                "summary": "Delete a job",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/{id}/refine": {
            "post": {
                "tags": ["jobs"],
                "summary": "Refine a job's notes with AI",
                "responses": {"200": {"description": "OK"}, "502": {"description": "Upstream failed"}}
            }
        },
        "/jobs/{id}/submit": {
            "post": {
                "tags": ["workflow"],
                "summary": "Submit a job for manager approval",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/jobs/{id}/approve": {
            "post": {
                "tags": ["workflow"],
                "summary": "Approve a pending job",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/jobs/{id}/reject": {
            "post": {
                "tags": ["workflow"],
                "summary": "Reject a pending job with feedback",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/jobs/{id}/comments": {
            "get": {
                "tags": ["comments"],
                "summary": "List a job's comments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["comments"],
                "summary": "Comment on a job",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/submissions": {
            "get": {
                "tags": ["workflow"],
                "summary": "List submissions for review",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/shared/{token}": {
            "get": {
                "tags": ["shared"],
                "summary": "Read a job via its share token",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown or expired token"}}
            }
        },
        "/shared/{token}/comments": {
            "get": {
                "tags": ["shared"],
                "summary": "List comments via a share token",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["shared"],
                "summary": "Comment on a job via a share token",
                "responses": {"201": {"description": "Created"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "JD Clarifier API",
	Description:      "Job-description authoring backend: AI refinement, skill extraction, and a manager approval workflow over Supabase.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
