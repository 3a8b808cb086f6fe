package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator builds the OpenAPI 3.0 document for the booking API.
type Generator struct {
	version string
	baseURL string
}

// NewGenerator creates a new OpenAPI document generator.
func NewGenerator(version, baseURL string) *Generator {
	return &Generator{version: version, baseURL: baseURL}
}

// GenerateSpec produces the OpenAPI 3.0 document as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "MedBook API",
			"version":     g.version,
			"description": "Medical appointment booking API: accounts, doctor directory, appointments, session records and video rooms.",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": g.buildPaths(),
		"components": map[string]interface{}{
			"schemas": buildComponentSchemas(),
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]interface{}{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string]interface{}{
			{"bearerAuth": []string{}},
		},
	}
}

func (g *Generator) buildPaths() map[string]interface{} {
	paths := map[string]interface{}{}

	paths["/api/v1/auth/register/patient"] = map[string]interface{}{
		"post": operation("Register a patient account", "registerPatient", "auth",
			withRequestBody("#/components/schemas/RegisterRequest"),
			withResponse("201", response("Account created", "#/components/schemas/RegisteredUser")),
			withResponse("400", errorResponse("Validation failure or duplicate email")),
			withoutSecurity()),
	}
	paths["/api/v1/auth/register/doctor"] = map[string]interface{}{
		"post": operation("Register a doctor account", "registerDoctor", "auth",
			withRequestBody("#/components/schemas/RegisterDoctorRequest"),
			withResponse("201", response("Account created", "#/components/schemas/RegisteredUser")),
			withResponse("400", errorResponse("Validation failure or duplicate email")),
			withoutSecurity()),
	}
	paths["/api/v1/auth/token"] = map[string]interface{}{
		"post": operation("Exchange credentials for a token pair", "login", "auth",
			withRequestBody("#/components/schemas/LoginRequest"),
			withResponse("200", response("Token pair", "#/components/schemas/TokenPair")),
			withResponse("401", errorResponse("Invalid credentials")),
			withoutSecurity()),
	}
	paths["/api/v1/auth/token/refresh"] = map[string]interface{}{
		"post": operation("Mint a new access token from a refresh token", "refreshToken", "auth",
			withRequestBody("#/components/schemas/RefreshRequest"),
			withResponse("200", response("New access token", "#/components/schemas/AccessToken")),
			withResponse("401", errorResponse("Invalid, expired or blacklisted refresh token")),
			withoutSecurity()),
	}
	paths["/api/v1/auth/token/blacklist"] = map[string]interface{}{
		"post": operation("Blacklist a refresh token (logout)", "blacklistToken", "auth",
			withRequestBody("#/components/schemas/RefreshRequest"),
			withResponse("204", map[string]interface{}{"description": "Token blacklisted"})),
	}
	paths["/api/v1/auth/me"] = map[string]interface{}{
		"get": operation("Current user", "me", "auth",
			withResponse("200", response("The authenticated user", "#/components/schemas/User"))),
	}

	paths["/api/v1/auth/me/patient-profile"] = map[string]interface{}{
		"get": operation("Own patient profile", "getPatientProfile", "profiles",
			withResponse("200", response("Patient profile", "#/components/schemas/PatientProfile"))),
		"patch": operation("Update own patient profile", "updatePatientProfile", "profiles",
			withRequestBody("#/components/schemas/PatientProfileUpdate"),
			withResponse("200", response("Updated profile", "#/components/schemas/PatientProfile")),
			withResponse("400", errorResponse("Validation failure"))),
	}
	paths["/api/v1/auth/me/doctor-profile"] = map[string]interface{}{
		"get": operation("Own doctor profile", "getDoctorProfile", "profiles",
			withResponse("200", response("Doctor profile", "#/components/schemas/DoctorProfile"))),
		"patch": operation("Update own doctor profile", "updateDoctorProfile", "profiles",
			withRequestBody("#/components/schemas/DoctorProfileUpdate"),
			withResponse("200", response("Updated profile", "#/components/schemas/DoctorProfile")),
			withResponse("400", errorResponse("Validation failure"))),
	}
	paths["/api/v1/auth/doctors"] = map[string]interface{}{
		"get": operation("Browse approved doctors", "listDoctors", "directory",
			withParameters(
				queryParam("search", "string", "Case-insensitive match on name or specialization"),
				queryParam("specialization", "string", "Exact specialization filter"),
				queryParam("ordering", "string", "consultation_fee, -consultation_fee, created_at or -created_at"),
				queryParam("limit", "integer", "Page size"),
				queryParam("offset", "integer", "Page start"),
			),
			withResponse("200", response("Paged doctor profiles", "#/components/schemas/DoctorPage"))),
	}
	paths["/api/v1/auth/doctors/{id}"] = map[string]interface{}{
		"get": operation("Read an approved doctor", "getDoctor", "directory",
			withParameters(pathParam("id", "Doctor user id")),
			withResponse("200", response("Doctor profile", "#/components/schemas/DoctorProfile")),
			withResponse("404", errorResponse("Unknown or unapproved doctor"))),
	}
	paths["/api/v1/auth/admin/verify-doctor/{id}"] = map[string]interface{}{
		"patch": operation("Set a doctor's verification status", "verifyDoctor", "admin",
			withParameters(pathParam("id", "Doctor user id")),
			withRequestBody("#/components/schemas/VerifyDoctorRequest"),
			withResponse("200", response("New status", "#/components/schemas/VerifyDoctorResponse")),
			withResponse("404", errorResponse("Unknown doctor"))),
	}

	paths["/api/v1/appointments"] = map[string]interface{}{
		"post": operation("Book an appointment", "createAppointment", "appointments",
			withRequestBody("#/components/schemas/AppointmentCreate"),
			withResponse("201", response("The booked appointment", "#/components/schemas/Appointment")),
			withResponse("400", errorResponse("Validation failure")),
			withResponse("403", errorResponse("Caller is not a patient or the doctor is unverified"))),
		"get": operation("List own appointments", "listAppointments", "appointments",
			withParameters(
				queryParam("status", "string", "Filter by status"),
				queryParam("limit", "integer", "Page size"),
				queryParam("offset", "integer", "Page start"),
			),
			withResponse("200", response("Paged appointments", "#/components/schemas/AppointmentPage"))),
	}
	paths["/api/v1/appointments/upcoming"] = map[string]interface{}{
		"get": operation("List upcoming appointments, soonest first", "listUpcomingAppointments", "appointments",
			withParameters(
				queryParam("limit", "integer", "Page size"),
				queryParam("offset", "integer", "Page start"),
			),
			withResponse("200", response("Paged appointments", "#/components/schemas/AppointmentPage"))),
	}
	paths["/api/v1/appointments/{id}"] = map[string]interface{}{
		"get": operation("Read an appointment", "getAppointment", "appointments",
			withParameters(pathParam("id", "Appointment id")),
			withResponse("200", response("The appointment", "#/components/schemas/Appointment")),
			withResponse("403", errorResponse("Caller is not a party")),
			withResponse("404", errorResponse("Unknown appointment"))),
	}
	paths["/api/v1/appointments/{id}/cancel"] = map[string]interface{}{
		"patch": operation("Cancel a scheduled appointment", "cancelAppointment", "appointments",
			withParameters(pathParam("id", "Appointment id")),
			withRequestBody("#/components/schemas/AppointmentCancel"),
			withResponse("200", response("The cancelled appointment", "#/components/schemas/Appointment")),
			withResponse("409", errorResponse("Appointment already settled"))),
	}
	paths["/api/v1/appointments/{id}/session"] = map[string]interface{}{
		"post": operation("File the session record and complete the appointment", "createSessionRecord", "sessions",
			withParameters(pathParam("id", "Appointment id")),
			withRequestBody("#/components/schemas/SessionRecordCreate"),
			withResponse("201", response("The session record", "#/components/schemas/SessionRecord")),
			withResponse("403", errorResponse("Caller is not the assigned doctor")),
			withResponse("409", errorResponse("Appointment not scheduled or record already filed"))),
		"get": operation("Read the session record", "getSessionRecord", "sessions",
			withParameters(pathParam("id", "Appointment id")),
			withResponse("200", response("The session record", "#/components/schemas/SessionRecord")),
			withResponse("404", errorResponse("No record filed yet"))),
	}

	paths["/api/v1/rooms/appointment/{id}"] = map[string]interface{}{
		"post": operation("Create or fetch the video room for an appointment", "createVideoRoom", "rooms",
			withParameters(pathParam("id", "Appointment id")),
			withResponse("200", response("Existing room", "#/components/schemas/VideoRoom")),
			withResponse("201", response("Freshly created room", "#/components/schemas/VideoRoom")),
			withResponse("409", errorResponse("Appointment not scheduled"))),
	}
	paths["/api/v1/rooms/{room_name}"] = map[string]interface{}{
		"get": operation("Join an active video room by name", "getVideoRoom", "rooms",
			withParameters(map[string]interface{}{
				"name": "room_name", "in": "path", "required": true,
				"schema": map[string]interface{}{"type": "string"},
			}),
			withResponse("200", response("The room", "#/components/schemas/VideoRoom")),
			withResponse("404", errorResponse("Unknown, inactive or expired room"))),
	}

	paths["/health"] = map[string]interface{}{
		"get": operation("Liveness probe", "health", "platform",
			withResponse("200", map[string]interface{}{"description": "Service is up"}),
			withoutSecurity()),
	}
	paths["/health/db"] = map[string]interface{}{
		"get": operation("Database health and pool statistics", "healthDB", "platform",
			withResponse("200", map[string]interface{}{"description": "Database reachable"}),
			withResponse("503", map[string]interface{}{"description": "Database unreachable"}),
			withoutSecurity()),
	}

	return paths
}

// ── Operation builders ──────────────────────────────────────────────────

type opOption func(map[string]interface{})

func operation(summary, operationID, tag string, opts ...opOption) map[string]interface{} {
	op := map[string]interface{}{
		"summary":     summary,
		"operationId": operationID,
		"tags":        []string{tag},
		"responses":   map[string]interface{}{},
	}
	for _, o := range opts {
		o(op)
	}
	return op
}

func withRequestBody(schemaRef string) opOption {
	return func(op map[string]interface{}) {
		op["requestBody"] = map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]interface{}{"$ref": schemaRef},
				},
			},
		}
	}
}

func withResponse(status string, resp map[string]interface{}) opOption {
	return func(op map[string]interface{}) {
		op["responses"].(map[string]interface{})[status] = resp
	}
}

func withParameters(params ...map[string]interface{}) opOption {
	return func(op map[string]interface{}) {
		op["parameters"] = params
	}
}

func withoutSecurity() opOption {
	return func(op map[string]interface{}) {
		op["security"] = []map[string]interface{}{}
	}
}

func response(description, schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

func errorResponse(description string) map[string]interface{} {
	return response(description, "#/components/schemas/Error")
}

func queryParam(name, typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "query",
		"description": description,
		"schema":      map[string]interface{}{"type": typ},
	}
}

func pathParam(name, description string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "path",
		"required":    true,
		"description": description,
		"schema":      map[string]interface{}{"type": "string", "format": "uuid"},
	}
}

// ── Component schemas ───────────────────────────────────────────────────

func buildComponentSchemas() map[string]interface{} {
	schemas := map[string]interface{}{}

	schemas["Error"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"error": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"kind": map[string]interface{}{
						"type": "string",
						"enum": []string{"validation", "authentication", "authorization", "not_found", "conflict", "internal"},
					},
					"detail": map[string]interface{}{"type": "string"},
				},
			},
		},
	}

	schemas["RegisterRequest"] = map[string]interface{}{
		"type":     "object",
		"required": []string{"email", "password", "first_name", "last_name"},
		"properties": map[string]interface{}{
			"email":         map[string]interface{}{"type": "string", "format": "email"},
			"password":      map[string]interface{}{"type": "string", "minLength": 8},
			"first_name":    map[string]interface{}{"type": "string"},
			"last_name":     map[string]interface{}{"type": "string"},
			"phone":         map[string]interface{}{"type": "string"},
			"date_of_birth": map[string]interface{}{"type": "string", "format": "date"},
			"gender":        map[string]interface{}{"type": "string"},
			"address":       map[string]interface{}{"type": "string"},
		},
	}
	schemas["RegisterDoctorRequest"] = map[string]interface{}{
		"allOf": []interface{}{
			map[string]interface{}{"$ref": "#/components/schemas/RegisterRequest"},
			map[string]interface{}{
				"type":     "object",
				"required": []string{"license_number", "specialization"},
				"properties": map[string]interface{}{
					"license_number": map[string]interface{}{"type": "string"},
					"specialization": map[string]interface{}{"type": "string"},
				},
			},
		},
	}
	schemas["RegisteredUser"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":    map[string]interface{}{"type": "string", "format": "uuid"},
			"email": map[string]interface{}{"type": "string", "format": "email"},
			"role":  map[string]interface{}{"type": "string", "enum": []string{"patient", "doctor", "admin"}},
		},
	}
	schemas["LoginRequest"] = map[string]interface{}{
		"type":     "object",
		"required": []string{"email", "password"},
		"properties": map[string]interface{}{
			"email":    map[string]interface{}{"type": "string", "format": "email"},
			"password": map[string]interface{}{"type": "string"},
		},
	}
	schemas["TokenPair"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"access":  map[string]interface{}{"type": "string"},
			"refresh": map[string]interface{}{"type": "string"},
		},
	}
	schemas["AccessToken"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"access": map[string]interface{}{"type": "string"},
		},
	}
	schemas["RefreshRequest"] = map[string]interface{}{
		"type":     "object",
		"required": []string{"refresh"},
		"properties": map[string]interface{}{
			"refresh": map[string]interface{}{"type": "string"},
		},
	}
	schemas["User"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":            map[string]interface{}{"type": "string", "format": "uuid"},
			"email":         map[string]interface{}{"type": "string", "format": "email"},
			"role":          map[string]interface{}{"type": "string", "enum": []string{"patient", "doctor", "admin"}},
			"first_name":    map[string]interface{}{"type": "string"},
			"last_name":     map[string]interface{}{"type": "string"},
			"phone":         map[string]interface{}{"type": "string"},
			"date_of_birth": map[string]interface{}{"type": "string", "format": "date"},
			"gender":        map[string]interface{}{"type": "string"},
			"address":       map[string]interface{}{"type": "string"},
			"created_at":    map[string]interface{}{"type": "string", "format": "date-time"},
			"updated_at":    map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}

	schemas["PatientProfile"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"user_id":            map[string]interface{}{"type": "string", "format": "uuid"},
			"blood_type":         map[string]interface{}{"type": "string"},
			"allergies":          map[string]interface{}{"type": "string"},
			"height_cm":          map[string]interface{}{"type": "number"},
			"weight_kg":          map[string]interface{}{"type": "number"},
			"medical_history":    map[string]interface{}{"type": "string"},
			"chronic_conditions": map[string]interface{}{"type": "string"},
			"created_at":         map[string]interface{}{"type": "string", "format": "date-time"},
			"updated_at":         map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
	schemas["PatientProfileUpdate"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"blood_type":         map[string]interface{}{"type": "string"},
			"allergies":          map[string]interface{}{"type": "string"},
			"height_cm":          map[string]interface{}{"type": "number"},
			"weight_kg":          map[string]interface{}{"type": "number"},
			"medical_history":    map[string]interface{}{"type": "string"},
			"chronic_conditions": map[string]interface{}{"type": "string"},
		},
	}
	schemas["TimeRange"] = map[string]interface{}{
		"type":     "object",
		"required": []string{"start", "end"},
		"properties": map[string]interface{}{
			"start": map[string]interface{}{"type": "string", "example": "09:00"},
			"end":   map[string]interface{}{"type": "string", "example": "17:00"},
		},
	}
	schemas["Availability"] = map[string]interface{}{
		"type":        "object",
		"description": "Lowercase weekday names mapped to ordered, non-overlapping time ranges.",
		"additionalProperties": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"$ref": "#/components/schemas/TimeRange"},
		},
	}
	schemas["DoctorProfile"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"user_id":             map[string]interface{}{"type": "string", "format": "uuid"},
			"first_name":          map[string]interface{}{"type": "string"},
			"last_name":           map[string]interface{}{"type": "string"},
			"license_number":      map[string]interface{}{"type": "string"},
			"specialization":      map[string]interface{}{"type": "string"},
			"description":         map[string]interface{}{"type": "string"},
			"consultation_fee":    map[string]interface{}{"type": "number"},
			"availability":        map[string]interface{}{"$ref": "#/components/schemas/Availability"},
			"verification_status": map[string]interface{}{"type": "string", "enum": []string{"pending", "approved", "rejected"}},
			"created_at":          map[string]interface{}{"type": "string", "format": "date-time"},
			"updated_at":          map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
	schemas["DoctorProfileUpdate"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"specialization":   map[string]interface{}{"type": "string"},
			"description":      map[string]interface{}{"type": "string"},
			"consultation_fee": map[string]interface{}{"type": "number"},
			"availability":     map[string]interface{}{"$ref": "#/components/schemas/Availability"},
		},
	}
	schemas["VerifyDoctorRequest"] = map[string]interface{}{
		"type":     "object",
		"required": []string{"verification_status"},
		"properties": map[string]interface{}{
			"verification_status": map[string]interface{}{"type": "string", "enum": []string{"pending", "approved", "rejected"}},
		},
	}
	schemas["VerifyDoctorResponse"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"user_id":             map[string]interface{}{"type": "string", "format": "uuid"},
			"verification_status": map[string]interface{}{"type": "string"},
		},
	}

	schemas["Appointment"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":               map[string]interface{}{"type": "string", "format": "uuid"},
			"patient_id":       map[string]interface{}{"type": "string", "format": "uuid"},
			"doctor_id":        map[string]interface{}{"type": "string", "format": "uuid"},
			"scheduled_time":   map[string]interface{}{"type": "string", "format": "date-time"},
			"duration_min":     map[string]interface{}{"type": "integer", "default": 30},
			"reason":           map[string]interface{}{"type": "string"},
			"status":           map[string]interface{}{"type": "string", "enum": []string{"scheduled", "completed", "cancelled", "noshow"}},
			"cancelled_reason": map[string]interface{}{"type": "string"},
			"created_at":       map[string]interface{}{"type": "string", "format": "date-time"},
			"updated_at":       map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
	schemas["AppointmentCreate"] = map[string]interface{}{
		"type":     "object",
		"required": []string{"doctor_id", "scheduled_time", "reason"},
		"properties": map[string]interface{}{
			"doctor_id":      map[string]interface{}{"type": "string", "format": "uuid"},
			"scheduled_time": map[string]interface{}{"type": "string", "format": "date-time"},
			"duration_min":   map[string]interface{}{"type": "integer", "default": 30},
			"reason":         map[string]interface{}{"type": "string"},
		},
	}
	schemas["AppointmentCancel"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"reason": map[string]interface{}{"type": "string"},
		},
	}
	schemas["SessionRecord"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":             map[string]interface{}{"type": "string", "format": "uuid"},
			"appointment_id": map[string]interface{}{"type": "string", "format": "uuid"},
			"diagnosis":      map[string]interface{}{"type": "string"},
			"treatment":      map[string]interface{}{"type": "string"},
			"notes":          map[string]interface{}{"type": "string"},
			"prescription":   map[string]interface{}{"type": "string"},
			"start_time":     map[string]interface{}{"type": "string", "format": "date-time"},
			"end_time":       map[string]interface{}{"type": "string", "format": "date-time"},
			"created_at":     map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
	schemas["SessionRecordCreate"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"diagnosis":    map[string]interface{}{"type": "string"},
			"treatment":    map[string]interface{}{"type": "string"},
			"notes":        map[string]interface{}{"type": "string"},
			"prescription": map[string]interface{}{"type": "string"},
			"end_time":     map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
	schemas["VideoRoom"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":             map[string]interface{}{"type": "string", "format": "uuid"},
			"appointment_id": map[string]interface{}{"type": "string", "format": "uuid"},
			"room_name":      map[string]interface{}{"type": "string"},
			"room_url":       map[string]interface{}{"type": "string", "format": "uri"},
			"is_active":      map[string]interface{}{"type": "boolean"},
			"expires_at":     map[string]interface{}{"type": "string", "format": "date-time"},
			"created_by":     map[string]interface{}{"type": "string", "format": "uuid"},
			"created_at":     map[string]interface{}{"type": "string", "format": "date-time"},
			"updated_at":     map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}

	schemas["DoctorPage"] = pageSchema("#/components/schemas/DoctorProfile")
	schemas["AppointmentPage"] = pageSchema("#/components/schemas/Appointment")

	return schemas
}

// pageSchema wraps an item schema in the standard pagination envelope.
func pageSchema(itemRef string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"$ref": itemRef},
			},
			"total":    map[string]interface{}{"type": "integer", "minimum": 0},
			"limit":    map[string]interface{}{"type": "integer", "minimum": 0},
			"offset":   map[string]interface{}{"type": "integer", "minimum": 0},
			"has_more": map[string]interface{}{"type": "boolean"},
		},
	}
}

// ── HTML viewers ────────────────────────────────────────────────────────

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>MedBook API - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
  <style>
    html { box-sizing: border-box; overflow-y: scroll; }
    *, *:before, *:after { box-sizing: inherit; }
    body { margin: 0; background: #fafafa; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/schema",
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: "BaseLayout"
    })
  </script>
</body>
</html>`

const redocHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>MedBook API - ReDoc</title>
  <style>
    body { margin: 0; padding: 0; }
  </style>
</head>
<body>
  <redoc spec-url="/schema"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

// RegisterRoutes registers the schema endpoints.
func (g *Generator) RegisterRoutes(e *echo.Echo) {
	e.GET("/schema", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
	e.GET("/schema/swagger-ui", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerUIHTML)
	})
	e.GET("/schema/redoc", func(c echo.Context) error {
		return c.HTML(http.StatusOK, redocHTML)
	})
}
