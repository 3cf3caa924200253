// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@loanhub.example.com"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/loan-types": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Master"],
                "summary": "List loan types",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/loans": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "List loans",
                "parameters": [
                    {"type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Apply for a loan",
                "parameters": [
                    {"description": "Loan terms", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ApplyLoanInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/loans/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Get loan",
                "parameters": [{"type": "integer", "description": "Loan ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/loans/{id}/schedule": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Get repayment schedule",
                "parameters": [{"type": "integer", "description": "Loan ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/loans/{id}/repayments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Make a repayment",
                "parameters": [
                    {"type": "integer", "description": "Loan ID", "name": "id", "in": "path", "required": true},
                    {"description": "Payment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RepayInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/loans/{id}/prepayments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Make a prepayment",
                "parameters": [
                    {"type": "integer", "description": "Loan ID", "name": "id", "in": "path", "required": true},
                    {"description": "Prepayment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.PrepayInput"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/loans/{id}/foreclosure-quote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Foreclosure"],
                "summary": "Quote foreclosure",
                "parameters": [{"type": "integer", "description": "Loan ID", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/foreclosures/{id}/settle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Foreclosure"],
                "summary": "Settle foreclosure",
                "parameters": [
                    {"type": "integer", "description": "Foreclosure ID", "name": "id", "in": "path", "required": true},
                    {"description": "Payment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.SettleInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/overdue/sweep": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Overdue"],
                "summary": "Run overdue sweep",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Portfolio dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "code": {"type": "string"},
                "error": {"type": "string"},
                "details": {}
            }
        },
        "services.ApplyLoanInput": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "integer"},
                "account_id": {"type": "integer"},
                "loan_type": {"type": "string", "example": "PERSONAL"},
                "principal_amount": {"type": "string", "example": "120000.00"},
                "tenure_months": {"type": "integer", "example": 12},
                "repayment_frequency": {"type": "string", "example": "MONTHLY"},
                "purpose": {"type": "string"},
                "collateral_details": {"type": "string"}
            }
        },
        "services.RepayInput": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "10661.85"},
                "payment_method": {"type": "string", "example": "ACCOUNT"}
            }
        },
        "services.PrepayInput": {
            "type": "object",
            "properties": {
                "prepayment_type": {"type": "string", "example": "PARTIAL"},
                "amount": {"type": "string", "example": "50000.00"},
                "payment_method": {"type": "string", "example": "CASH"}
            }
        },
        "services.SettleInput": {
            "type": "object",
            "properties": {
                "payment_amount": {"type": "string"},
                "payment_method": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "loanhub API",
	Description:      "Retail installment loan lifecycle and amortization engine",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
