package openapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGenerateSpec_Document(t *testing.T) {
	g := NewGenerator("1.0.0", "http://localhost:8080")
	spec := g.GenerateSpec()

	if spec["openapi"] != "3.0.3" {
		t.Errorf("expected openapi 3.0.3, got %v", spec["openapi"])
	}
	info, ok := spec["info"].(map[string]interface{})
	if !ok || info["version"] != "1.0.0" {
		t.Errorf("expected info.version 1.0.0, got %v", spec["info"])
	}
}

func TestGenerateSpec_Paths(t *testing.T) {
	g := NewGenerator("1.0.0", "http://localhost:8080")
	paths, ok := g.GenerateSpec()["paths"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a paths map")
	}

	expected := []string{
		"/api/v1/auth/register/patient",
		"/api/v1/auth/register/doctor",
		"/api/v1/auth/token",
		"/api/v1/auth/token/refresh",
		"/api/v1/auth/token/blacklist",
		"/api/v1/auth/me",
		"/api/v1/auth/me/patient-profile",
		"/api/v1/auth/me/doctor-profile",
		"/api/v1/auth/doctors",
		"/api/v1/auth/doctors/{id}",
		"/api/v1/auth/admin/verify-doctor/{id}",
		"/api/v1/appointments",
		"/api/v1/appointments/upcoming",
		"/api/v1/appointments/{id}",
		"/api/v1/appointments/{id}/cancel",
		"/api/v1/appointments/{id}/session",
		"/api/v1/rooms/appointment/{id}",
		"/api/v1/rooms/{room_name}",
		"/health",
		"/health/db",
	}
	for _, p := range expected {
		if _, ok := paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}
	if len(paths) != len(expected) {
		t.Errorf("expected %d paths, got %d", len(expected), len(paths))
	}
}

func TestGenerateSpec_ComponentSchemas(t *testing.T) {
	g := NewGenerator("1.0.0", "http://localhost:8080")
	components := g.GenerateSpec()["components"].(map[string]interface{})
	schemas := components["schemas"].(map[string]interface{})

	for _, name := range []string{
		"Error", "User", "TokenPair", "PatientProfile", "DoctorProfile",
		"Availability", "Appointment", "SessionRecord", "VideoRoom",
		"DoctorPage", "AppointmentPage",
	} {
		if _, ok := schemas[name]; !ok {
			t.Errorf("missing schema %s", name)
		}
	}

	if _, ok := components["securitySchemes"].(map[string]interface{})["bearerAuth"]; !ok {
		t.Error("missing bearerAuth security scheme")
	}
}

func TestRegisterRoutes(t *testing.T) {
	g := NewGenerator("1.0.0", "http://localhost:8080")
	e := echo.New()
	g.RegisterRoutes(e)

	cases := []struct {
		path     string
		contains string
	}{
		{"/schema", `"openapi":"3.0.3"`},
		{"/schema/swagger-ui", "SwaggerUIBundle"},
		{"/schema/redoc", "redoc"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tc.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.contains) {
			t.Errorf("%s: expected body to contain %q", tc.path, tc.contains)
		}
	}
}
