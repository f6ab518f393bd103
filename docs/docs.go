// Package docs holds the swagger spec served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
            "email": "support@learnhub.app"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/course/published": {
            "get": {
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "List published courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/course/{courseId}": {
            "get": {
                "description": "Lecture videos are only included for free preview lectures",
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Get a course",
                "parameters": [
                    {"type": "integer", "description": "Course ID", "name": "courseId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid course ID", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/purchase/": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["purchase"],
                "summary": "List purchased courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PurchasedCoursesResponse"}},
                    "401": {"description": "User not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Failed to fetch purchased courses", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/purchase/summary": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["purchase"],
                "summary": "Purchase summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "User not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/purchase/checkout/create-checkout-session": {
            "post": {
                "security": [{"CookieAuth": []}],
                "description": "Records a pending purchase and returns the payment page URL the client should redirect to",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["purchase"],
                "summary": "Create a checkout session",
                "parameters": [
                    {"description": "Course to buy", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CheckoutSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Checkout session created", "schema": {"$ref": "#/definitions/dto.CheckoutSessionResponse"}},
                    "400": {"description": "Invalid request or gateway declined the session", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "User not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/purchase/course/{courseId}/detail-with-status": {
            "get": {
                "security": [{"CookieAuth": []}],
                "description": "Returns the course with creator and lectures, plus whether the caller holds a completed purchase",
                "produces": ["application/json"],
                "tags": ["purchase"],
                "summary": "Course detail with purchase status",
                "parameters": [
                    {"type": "integer", "description": "Course ID", "name": "courseId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CourseDetailWithStatusResponse"}},
                    "400": {"description": "Invalid course ID", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "User not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/purchase/course/{courseId}/lecture/{lectureId}": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["purchase"],
                "summary": "Get a lecture",
                "parameters": [
                    {"type": "integer", "description": "Course ID", "name": "courseId", "in": "path", "required": true},
                    {"type": "integer", "description": "Lecture ID", "name": "lectureId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LectureAccessResponse"}},
                    "401": {"description": "User not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Lecture is locked", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Lecture not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/webhook": {
            "post": {
                "description": "Receives signed gateway events. The body is verified byte for byte against the stripe-signature header.",
                "consumes": ["application/json"],
                "tags": ["webhook"],
                "summary": "Payment gateway webhook",
                "parameters": [
                    {"type": "string", "description": "Gateway signature", "name": "stripe-signature", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "Event accepted"},
                    "400": {"description": "Signature verification failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Purchase/user/course not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Event could not be applied; the gateway will retry", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/user/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new student",
                "parameters": [
                    {"description": "User registration information", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "400": {"description": "Invalid request format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "400": {"description": "Invalid request format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/user/logout": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}}
                }
            }
        },
        "/user/profile": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "401": {"description": "User not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.AuthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Welcome back Jane Doe"},
                "success": {"type": "boolean", "example": true},
                "user": {"$ref": "#/definitions/dto.UserResponse"}
            }
        },
        "dto.CheckoutSessionRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "integer", "minimum": 1, "example": 7}
            }
        },
        "dto.CheckoutSessionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "url": {"type": "string", "example": "https://checkout.stripe.com/c/pay/cs_test_a1"}
            }
        },
        "dto.CourseDetailWithStatusResponse": {
            "type": "object",
            "properties": {
                "course": {"$ref": "#/definitions/dto.CourseResponse"},
                "purchased": {"type": "boolean", "example": false}
            }
        },
        "dto.CourseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 7},
                "courseTitle": {"type": "string", "example": "Go Fundamentals"},
                "subTitle": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "courseLevel": {"type": "string", "example": "Beginner"},
                "coursePrice": {"type": "number", "example": 500},
                "courseThumbnail": {"type": "string"},
                "isPublished": {"type": "boolean", "example": true},
                "creator": {"$ref": "#/definitions/dto.CreatorResponse"},
                "lectures": {"type": "array", "items": {"$ref": "#/definitions/dto.LectureResponse"}},
                "enrolledStudents": {"type": "array", "items": {"type": "integer"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.CreatorResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "photoUrl": {"type": "string"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "RES_001"},
                "message": {"type": "string", "example": "course not found"},
                "field": {"type": "string", "example": "courseId"},
                "severity": {"type": "string", "example": "ERROR"},
                "details": {},
                "debugInfo": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "success": {"type": "boolean", "example": false},
                "timestamp": {"type": "string"}
            }
        },
        "dto.LectureAccessResponse": {
            "type": "object",
            "properties": {
                "courseId": {"type": "integer"},
                "lecture": {"$ref": "#/definitions/dto.LectureResponse"}
            }
        },
        "dto.LectureResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "position": {"type": "integer"},
                "lectureTitle": {"type": "string"},
                "videoUrl": {"type": "string"},
                "isPreviewFree": {"type": "boolean"},
                "accessible": {"type": "boolean"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.PurchaseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "courseId": {"$ref": "#/definitions/dto.CourseResponse"},
                "userId": {"type": "integer", "example": 3},
                "amount": {"type": "number", "example": 500},
                "currency": {"type": "string", "example": "inr"},
                "status": {"type": "string", "example": "completed"},
                "paymentId": {"type": "string", "example": "cs_test_a1"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.PurchaseSummaryResponse": {
            "type": "object",
            "properties": {
                "totalSales": {"type": "integer", "example": 4},
                "totalRevenue": {"type": "number", "example": 2000}
            }
        },
        "dto.PurchasedCoursesResponse": {
            "type": "object",
            "properties": {
                "purchasedCourse": {"type": "array", "items": {"$ref": "#/definitions/dto.PurchaseResponse"}}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 3},
                "name": {"type": "string", "example": "Jane Doe"},
                "email": {"type": "string", "example": "jane@learnhub.app"},
                "role": {"type": "string", "example": "student"},
                "photoUrl": {"type": "string"},
                "enrolledCourses": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {
            "description": "Session token set by /user/login",
            "type": "apiKey",
            "name": "token",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "LearnHub API",
	Description:      "Course storefront API: catalogue, accounts, checkout and payment webhooks",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
