package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Coursedeck API",
        "description": "Course marketplace: accounts, catalog, purchases",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Accounts", "description": "Signup and signin for users and admins"},
        {"name": "Courses", "description": "Admin course registry and public catalog"},
        {"name": "Purchases", "description": "Purchase ledger"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/user/signup": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Create user account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error or email already registered"}
                }
            }
        },
        "/user/signin": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Issue user token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SigninRequest"}}
                ],
                "responses": {
                    "200": {"description": "Signin successful"},
                    "401": {"description": "Invalid credentials"},
                    "404": {"description": "Identity not found"}
                }
            }
        },
        "/user/purchases": {
            "get": {
                "tags": ["Purchases"],
                "summary": "List own purchases with course data",
                "parameters": [
                    {"name": "token", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Purchases"},
                    "401": {"description": "Missing token"},
                    "403": {"description": "Invalid or wrong-role token"}
                }
            }
        },
        "/user/purchases/{id}/receipt": {
            "get": {
                "tags": ["Purchases"],
                "summary": "Download purchase receipt PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "header", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF receipt"},
                    "404": {"description": "Purchase not found"}
                }
            }
        },
        "/course/preview": {
            "get": {
                "tags": ["Courses"],
                "summary": "Public course catalog",
                "responses": {
                    "200": {"description": "All courses"}
                }
            }
        },
        "/course/purchase": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Purchase a course",
                "parameters": [
                    {"name": "token", "in": "header", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PurchaseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Purchase recorded"},
                    "400": {"description": "Already purchased"},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/admin/signup": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Create admin account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error or email already registered"}
                }
            }
        },
        "/admin/signin": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Issue admin token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SigninRequest"}}
                ],
                "responses": {
                    "200": {"description": "Signin successful"},
                    "401": {"description": "Invalid credentials"},
                    "404": {"description": "Identity not found"}
                }
            }
        },
        "/admin/course": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create course owned by caller",
                "parameters": [
                    {"name": "token", "in": "header", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Course created"},
                    "401": {"description": "Missing token"},
                    "403": {"description": "Invalid or wrong-role token"}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update own course",
                "parameters": [
                    {"name": "token", "in": "header", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "Course updated"},
                    "404": {"description": "Not owned or missing"}
                }
            },
            "get": {
                "tags": ["Courses"],
                "summary": "List own courses",
                "parameters": [
                    {"name": "token", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Courses"}
                }
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "required": ["email", "password", "first_name", "last_name"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "SigninRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "image_url": {"type": "string"}
            }
        },
        "UpdateCourseRequest": {
            "type": "object",
            "required": ["course_id", "title"],
            "properties": {
                "course_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "image_url": {"type": "string"}
            }
        },
        "PurchaseRequest": {
            "type": "object",
            "required": ["course_id"],
            "properties": {
                "course_id": {"type": "string"}
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
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
