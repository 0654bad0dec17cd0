package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		rid := c.Get("request_id").(string)
		if rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := RequestID()(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if rid := c.Get("request_id").(string); rid != "my-custom-id" {
			t.Errorf("expected my-custom-id, got %s", rid)
		}
		return c.String(http.StatusOK, "ok")
	}

	RequestID()(handler)(c)

	if rec.Header().Get(RequestIDHeader) != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestID_ReplacesOversized(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	RequestID()(func(c echo.Context) error { return nil })(c)

	if got := rec.Header().Get(RequestIDHeader); len(got) > 128 {
		t.Errorf("expected oversized id to be replaced, got %d bytes", len(got))
	}
}

func TestLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "user-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-1")
	c.Set("tenant_id", "clinic001")

	err := Logger(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line: %v", err)
	}
	if entry["level"] != "info" || entry["request_id"] != "req-1" || entry["tenant_id"] != "clinic001" || entry["user_id"] != "user-1" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestLogger_ErrorLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"client error", echo.NewHTTPError(http.StatusNotFound, "missing"), "warn"},
		{"server error", echo.NewHTTPError(http.StatusInternalServerError, "boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			Logger(zerolog.New(&buf))(func(c echo.Context) error { return tt.err })(c)

			var entry map[string]interface{}
			json.Unmarshal(buf.Bytes(), &entry)
			if entry["level"] != tt.level {
				t.Errorf("expected %s level, got %v", tt.level, entry["level"])
			}
		})
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/panic", nil), httptest.NewRecorder())

	err := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("test panic")
	})(c)

	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/ok", nil), httptest.NewRecorder())

	err := Recovery(zerolog.Nop())(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/abort", nil), httptest.NewRecorder())

	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Errorf("expected http.ErrAbortHandler to propagate, got %v", r)
		}
	}()
	Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic(http.ErrAbortHandler)
	})(c)
	t.Error("expected the panic to escape")
}

func TestErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("request_id", "req-9")

	ErrorHandler(zerolog.Nop())(echo.NewHTTPError(http.StatusConflict, "Email already registered"), c)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Detail != "Email already registered" || body.RequestID != "req-9" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(zerolog.Nop())(errors.New("pq: connection refused at 10.0.0.5"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("internal error detail leaked to client")
	}
}

func TestAudit_RecordsPatientAccess(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients/p-1/notes", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "user-1"))
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("tenant_id", "clinic001")
	c.Set("request_id", "req-123")

	var got []AuditEntry
	rec := AuditRecorderFunc(func(entry AuditEntry) error {
		got = append(got, entry)
		return nil
	})

	err := Audit(zerolog.Nop(), rec)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(got))
	}
	entry := got[0]
	if entry.Resource != "patients" || entry.PatientID != "p-1" || entry.Action != "read" ||
		entry.UserID != "user-1" || entry.TenantID != "clinic001" || entry.Status != http.StatusOK {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestAudit_SkipsUnauditedPaths(t *testing.T) {
	for _, path := range []string{"/health", "/api/auth/login", "/api/staff"} {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, path, nil), httptest.NewRecorder())
		called := false
		rec := AuditRecorderFunc(func(AuditEntry) error { called = true; return nil })

		Audit(zerolog.Nop(), rec)(func(c echo.Context) error { return nil })(c)
		if called {
			t.Errorf("expected %s not to be audited", path)
		}
	}
}

func TestAudit_PatientFromQuery(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/follow-ups?patient_id=p-7", nil), httptest.NewRecorder())

	var entry AuditEntry
	rec := AuditRecorderFunc(func(e AuditEntry) error { entry = e; return nil })
	Audit(zerolog.Nop(), rec)(func(c echo.Context) error { return nil })(c)

	if entry.Resource != "follow-ups" || entry.PatientID != "p-7" || entry.Action != "create" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}
