package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cirqle API",
        "description": "Personal booking pages: host settings, public calendars and the appointment booking flow.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication"},
        {"name": "Hosts", "description": "Personal link and calendar settings"},
        {"name": "Preferences"},
        {"name": "Agenda", "description": "A host's upcoming bookings"},
        {"name": "Booking", "description": "Public calendar and direct booking"},
        {"name": "Booking flow", "description": "Step-by-step visitor sessions"},
        {"name": "Email", "description": "Landing page e-mail endpoints"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (PostgreSQL and Redis)",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is unavailable"}}
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/email/welcome": {
            "post": {
                "tags": ["Email"],
                "summary": "Send the welcome e-mail",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WelcomeEmailRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Result"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Result"}}, "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/Result"}}, "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Result"}}}
            }
        },
        "/api/email/contact": {
            "post": {
                "tags": ["Email"],
                "summary": "Forward a contact-form message",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Result"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Result"}}, "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/Result"}}, "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Result"}}}
            }
        },
        "/api/v1/usernames/{username}/availability": {
            "get": {
                "tags": ["Hosts"],
                "summary": "Check personal link availability",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Temporarily unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/hosts/{username}": {
            "get": {
                "tags": ["Booking"],
                "summary": "Public booking page",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/hosts/{username}/calendar": {
            "get": {
                "tags": ["Booking"],
                "summary": "Month grid in the host time zone",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}, {"name": "month", "in": "query", "type": "string", "description": "YYYY-MM"}, {"name": "selected", "in": "query", "type": "string", "description": "YYYY-MM-DD"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/hosts/{username}/slots": {
            "get": {
                "tags": ["Booking"],
                "summary": "Free slots for a date",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}, {"name": "date", "in": "query", "type": "string", "description": "YYYY-MM-DD"}, {"name": "tz", "in": "query", "type": "string", "description": "Viewer IANA time zone"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/hosts/{username}/bookings": {
            "post": {
                "tags": ["Booking"],
                "summary": "Book a slot",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Temporarily unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/hosts/{username}/sessions": {
            "post": {
                "tags": ["Booking flow"],
                "summary": "Start a booking session",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}": {
            "get": {
                "tags": ["Booking flow"],
                "summary": "Get a booking session",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Booking session ID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/service": {
            "put": {
                "tags": ["Booking flow"],
                "summary": "Select a service",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Booking session ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChooseServiceRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/date": {
            "put": {
                "tags": ["Booking flow"],
                "summary": "Select a date",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Booking session ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChooseDateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/time": {
            "put": {
                "tags": ["Booking flow"],
                "summary": "Select a time slot",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Booking session ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChooseTimeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/back": {
            "post": {
                "tags": ["Booking flow"],
                "summary": "Go back one step",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Booking session ID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/confirm": {
            "post": {
                "tags": ["Booking flow"],
                "summary": "Confirm the booking",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Booking session ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Customer"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Temporarily unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create a host account",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate host",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current host",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/verify-email": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Resend the verification e-mail",
                "security": [{"BearerAuth": []}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/verify-email/confirm": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Confirm e-mail address",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}],
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/forgot-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Request a password reset link",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForgotPasswordRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/reset-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Reset password with token",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfirmResetPasswordRequest"}}],
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/me/calendar-settings": {
            "get": {
                "tags": ["Hosts"],
                "summary": "Get calendar settings",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Hosts"],
                "summary": "Save calendar settings",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCalendarSettingsRequest"}}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/me/username": {
            "put": {
                "tags": ["Hosts"],
                "summary": "Claim personal link",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClaimUsernameRequest"}}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/me/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Get dashboard preferences",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Preferences"],
                "summary": "Update dashboard preferences",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePreferencesRequest"}}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/me/bookings": {
            "get": {
                "tags": ["Agenda"],
                "summary": "List bookings",
                "parameters": [{"name": "from", "in": "query", "type": "string", "description": "YYYY-MM-DD"}, {"name": "to", "in": "query", "type": "string", "description": "YYYY-MM-DD"}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/me/bookings/export": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Export bookings",
                "parameters": [{"name": "format", "in": "query", "type": "string", "description": "csv or pdf"}, {"name": "from", "in": "query", "type": "string", "description": "YYYY-MM-DD"}, {"name": "to", "in": "query", "type": "string", "description": "YYYY-MM-DD"}],
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "WelcomeEmailRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "extension": {"type": "string"}
            },
            "required": ["email", "extension"]
        },
        "ContactRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "message": {"type": "string"}
            },
            "required": ["name", "email", "message"]
        },
        "Result": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "BookingRequest": {
            "type": "object",
            "properties": {
                "service_id": {"type": "string"},
                "date": {"type": "string"},
                "time_slot": {"type": "string"},
                "customer_name": {"type": "string"},
                "customer_email": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["service_id", "date", "time_slot", "customer_name", "customer_email"]
        },
        "ChooseServiceRequest": {
            "type": "object",
            "properties": {
                "service_id": {"type": "string"}
            },
            "required": ["service_id"]
        },
        "ChooseDateRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"}
            },
            "required": ["date"]
        },
        "ChooseTimeRequest": {
            "type": "object",
            "properties": {
                "time": {"type": "string"}
            },
            "required": ["time"]
        },
        "Customer": {
            "type": "object",
            "properties": {
                "customer_name": {"type": "string"},
                "customer_email": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["customer_name", "customer_email"]
        },
        "SignupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "TokenRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            },
            "required": ["token"]
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
        },
        "ConfirmResetPasswordRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["token", "new_password"]
        },
        "ClaimUsernameRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"}
            },
            "required": ["username"]
        },
        "Service": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "price": {"type": "number"},
                "description": {"type": "string"},
                "icon": {"type": "string"},
                "is_default": {"type": "boolean"}
            },
            "required": ["id", "name"]
        },
        "DayAvailability": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AvailabilityConfig": {
            "type": "object",
            "properties": {
                "timezone": {"type": "string"},
                "weekdays": {"type": "object", "additionalProperties": {"$ref": "#/definitions/DayAvailability"}}
            }
        },
        "UpdateCalendarSettingsRequest": {
            "type": "object",
            "properties": {
                "page_title": {"type": "string"},
                "welcome_message": {"type": "string"},
                "services": {"type": "array", "items": {"$ref": "#/definitions/Service"}},
                "availability": {"$ref": "#/definitions/AvailabilityConfig"}
            },
            "required": ["page_title", "services"]
        },
        "UpdatePreferencesRequest": {
            "type": "object",
            "properties": {
                "theme": {"type": "string", "enum": ["light", "dark"]},
                "accent_color": {"type": "string"},
                "notifications": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
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
