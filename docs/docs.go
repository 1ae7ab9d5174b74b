// Package docs holds the OpenAPI document served under /api-docs.
// Regenerate with swag init -g cmd/server/main.go after changing handler annotations.
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
        "/v1/estimates/parse": {
            "post": {
                "tags": [
                    "estimates"
                ],
                "summary": "Parse a report letter",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.ParseRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ParseResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/rugs": {
            "post": {
                "tags": [
                    "rugs"
                ],
                "summary": "Create a rug estimate",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.CreateRugRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.RugEstimateResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/rugs/{rugId}": {
            "get": {
                "tags": [
                    "rugs"
                ],
                "summary": "Get a rug estimate",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.RugEstimateResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/rugs/{rugId}/services": {
            "post": {
                "tags": [
                    "services"
                ],
                "summary": "Add a service line",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/model.AddServiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.ServiceItemResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "services"
                ],
                "summary": "Replace the service list",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.ReplaceServicesRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.RugEstimateResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/rugs/{rugId}/services/{serviceId}": {
            "delete": {
                "tags": [
                    "services"
                ],
                "summary": "Delete a service line",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Service ID",
                        "name": "serviceId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/rugs/{rugId}/photos/{photoIndex}/annotations": {
            "get": {
                "tags": [
                    "annotations"
                ],
                "summary": "Get the markers of a photo",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Photo index",
                        "name": "photoIndex",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.AnnotationsResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "annotations"
                ],
                "summary": "Commit the markers of a photo",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Photo index",
                        "name": "photoIndex",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.AnnotationsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.AnnotationsResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/rugs/{rugId}/photos/{photoIndex}/edit-session": {
            "post": {
                "tags": [
                    "annotations"
                ],
                "summary": "Replay a marker edit session",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Rug estimate ID",
                        "name": "rugId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Photo index",
                        "name": "photoIndex",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.EditSessionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.EditSessionResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/jobs/{jobId}/rugs": {
            "get": {
                "tags": [
                    "jobs"
                ],
                "summary": "List the rugs of a job",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.RugListResponse"
                        }
                    }
                }
            }
        },
        "/v1/jobs/{jobId}/quote": {
            "post": {
                "tags": [
                    "jobs"
                ],
                "summary": "Price a service selection",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/model.SelectionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.QuoteResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/jobs/{jobId}/approve": {
            "post": {
                "tags": [
                    "jobs"
                ],
                "summary": "Approve a service selection",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/model.SelectionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.ApprovalResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/v1/jobs/{jobId}/export": {
            "get": {
                "tags": [
                    "export"
                ],
                "summary": "Download the job workbook",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "XLSX workbook",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/jobs/{jobId}/export/upload": {
            "post": {
                "tags": [
                    "export"
                ],
                "summary": "Upload the job workbook",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.UploadResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "model.ErrorDetail": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.ErrorDetail"
                    }
                }
            }
        },
        "model.Annotation": {
            "type": "object",
            "properties": {
                "label": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "x": {
                    "type": "number"
                },
                "y": {
                    "type": "number"
                }
            }
        },
        "model.PhotoAnnotations": {
            "type": "object",
            "properties": {
                "photoIndex": {
                    "type": "integer"
                },
                "annotations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Annotation"
                    }
                }
            }
        },
        "model.ParseRequest": {
            "type": "object",
            "properties": {
                "text": {
                    "type": "string"
                }
            }
        },
        "model.ServiceItemResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "quantity": {
                    "type": "integer"
                },
                "unitPrice": {
                    "type": "number"
                },
                "priority": {
                    "type": "string"
                },
                "mandatory": {
                    "type": "boolean"
                },
                "lineTotal": {
                    "type": "number"
                }
            }
        },
        "model.ParseResponse": {
            "type": "object",
            "properties": {
                "services": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.ServiceItemResponse"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "model.CreateRugRequest": {
            "type": "object",
            "properties": {
                "jobId": {
                    "type": "string"
                },
                "rugLabel": {
                    "type": "string"
                },
                "reportText": {
                    "type": "string"
                },
                "annotations": {
                    "type": "object"
                }
            },
            "required": [
                "jobId"
            ]
        },
        "model.AddServiceRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "quantity": {
                    "type": "integer"
                },
                "unitPrice": {
                    "type": "number"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "high",
                        "medium",
                        "low"
                    ]
                }
            }
        },
        "model.ServiceItemRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "quantity": {
                    "type": "integer"
                },
                "unitPrice": {
                    "type": "number"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "high",
                        "medium",
                        "low"
                    ]
                }
            }
        },
        "model.ReplaceServicesRequest": {
            "type": "object",
            "properties": {
                "services": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.ServiceItemRequest"
                    }
                }
            },
            "required": [
                "services"
            ]
        },
        "model.RugEstimateResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "jobId": {
                    "type": "string"
                },
                "rugLabel": {
                    "type": "string"
                },
                "reportText": {
                    "type": "string"
                },
                "services": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.ServiceItemResponse"
                    }
                },
                "photos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.PhotoAnnotations"
                    }
                },
                "status": {
                    "type": "string"
                },
                "subtotal": {
                    "type": "number"
                },
                "subtotalFormatted": {
                    "type": "string"
                },
                "totalCost": {
                    "type": "number"
                },
                "approvedAt": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "model.RugListResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.RugEstimateResponse"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "model.AnnotationsRequest": {
            "type": "object",
            "properties": {
                "annotations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Annotation"
                    }
                }
            },
            "required": [
                "annotations"
            ]
        },
        "model.AnnotationsResponse": {
            "type": "object",
            "properties": {
                "photoIndex": {
                    "type": "integer"
                },
                "annotations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Annotation"
                    }
                }
            }
        },
        "model.Surface": {
            "type": "object",
            "properties": {
                "originX": {
                    "type": "number"
                },
                "originY": {
                    "type": "number"
                },
                "width": {
                    "type": "number"
                },
                "height": {
                    "type": "number"
                }
            }
        },
        "model.Event": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string",
                    "enum": [
                        "enterEdit",
                        "click",
                        "pointerDown",
                        "pointerMove",
                        "pointerUp",
                        "pointerLeave",
                        "delete",
                        "relabel",
                        "save",
                        "cancel"
                    ]
                },
                "x": {
                    "type": "number"
                },
                "y": {
                    "type": "number"
                },
                "index": {
                    "type": "integer"
                },
                "label": {
                    "type": "string"
                }
            }
        },
        "model.EditSessionRequest": {
            "type": "object",
            "properties": {
                "surface": {
                    "$ref": "#/definitions/model.Surface"
                },
                "events": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Event"
                    }
                }
            },
            "required": [
                "events"
            ]
        },
        "model.EditSessionResponse": {
            "type": "object",
            "properties": {
                "photoIndex": {
                    "type": "integer"
                },
                "state": {
                    "type": "string"
                },
                "annotations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Annotation"
                    }
                },
                "committed": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Annotation"
                    }
                },
                "applied": {
                    "type": "integer"
                },
                "ignored": {
                    "type": "integer"
                },
                "saved": {
                    "type": "boolean"
                }
            }
        },
        "model.SelectionRequest": {
            "type": "object",
            "properties": {
                "selections": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "model.RugQuoteResponse": {
            "type": "object",
            "properties": {
                "rugId": {
                    "type": "string"
                },
                "rugLabel": {
                    "type": "string"
                },
                "services": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.ServiceItemResponse"
                    }
                },
                "total": {
                    "type": "number"
                },
                "totalFormatted": {
                    "type": "string"
                }
            }
        },
        "model.QuoteResponse": {
            "type": "object",
            "properties": {
                "jobId": {
                    "type": "string"
                },
                "rugs": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.RugQuoteResponse"
                    }
                },
                "grandTotal": {
                    "type": "number"
                },
                "grandTotalFormatted": {
                    "type": "string"
                },
                "selectedCount": {
                    "type": "integer"
                }
            }
        },
        "model.ApprovalResponse": {
            "type": "object",
            "properties": {
                "jobId": {
                    "type": "string"
                },
                "totalCost": {
                    "type": "number"
                },
                "approvedAt": {
                    "type": "string"
                },
                "quote": {
                    "$ref": "#/definitions/model.QuoteResponse"
                }
            }
        },
        "model.UploadResponse": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                }
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
	Title:            "Rug Estimate Service API",
	Description:      "Turns rug inspection letters into priced service estimates, annotated photos and approved quotes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
