package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                      "development",
		JWTSecret:                "test-secret",
		AccessTokenExpireMinutes: 60,
		CORSOrigins:              []string{"http://localhost:5173"},
		RateLimitRPS:             100,
		RateLimitBurst:           100,
		RequestTimeout:           5 * time.Second,
		TenantMigrationsDir:      "../../migrations/tenant",
	}
}

func TestNewServer_HealthIsPublic(t *testing.T) {
	e, cleanup := newServer(testConfig(), nil, zerolog.Nop())
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestNewServer_ProtectedRoutesRequireToken(t *testing.T) {
	e, cleanup := newServer(testConfig(), nil, zerolog.Nop())
	defer cleanup()

	for _, path := range []string{"/api/patients", "/api/patients/", "/api/appointments", "/api/follow-ups/", "/api/dashboard/stats", "/api/staff"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
			continue
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["detail"] == "" {
			t.Errorf("%s: expected a detail error body, got %s", path, rec.Body.String())
		}
	}
}

func TestNewServer_RegistersDomainRoutes(t *testing.T) {
	e, cleanup := newServer(testConfig(), nil, zerolog.Nop())
	defer cleanup()

	want := map[string]bool{}
	for _, route := range []string{
		"POST /api/auth/login",
		"POST /api/auth/register/company",
		"POST /api/auth/register/staff",
		"GET /api/patients",
		"GET /api/patients/:id/notes",
		"PATCH /api/appointments/:id",
		"PATCH /api/follow-ups/:id",
		"DELETE /api/staff/:id",
		"GET /api/dashboard/stats",
	} {
		want[route] = false
	}
	for _, r := range e.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		if !found {
			t.Errorf("route %s not registered", route)
		}
	}
}
