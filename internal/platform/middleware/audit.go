package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
)

// AuditEntry records one access to patient-bearing data. PatientID is taken
// from the path for /patients/:id routes and from the patient_id query
// parameter otherwise, so it may be empty for list reads.
type AuditEntry struct {
	Timestamp time.Time
	RequestID string
	TenantID  string
	UserID    string
	Role      string
	Resource  string
	PatientID string
	Action    string
	Method    string
	Path      string
	RemoteIP  string
	Status    int
}

// AuditRecorder persists audit entries somewhere other than the log.
// Recording errors are logged and never fail the request.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc adapts a function to AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

// RecordAccess calls f.
func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// auditedResources are the /api/<resource> prefixes that carry patient data.
var auditedResources = map[string]bool{
	"patients":     true,
	"appointments": true,
	"follow-ups":   true,
	"dashboard":    true,
}

// Audit logs who touched which patient data once the handler has run.
// Requests outside the audited resources pass through without an entry.
// recorder may be nil, in which case entries only go to logger.
func Audit(logger zerolog.Logger, recorder AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			resource, rest := splitResource(req.URL.Path)
			if !auditedResources[resource] {
				return next(c)
			}

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			ctx := req.Context()
			rid, _ := c.Get("request_id").(string)
			tenant, _ := c.Get("tenant_id").(string)
			entry := AuditEntry{
				Timestamp: time.Now().UTC(),
				RequestID: rid,
				TenantID:  tenant,
				UserID:    auth.UserIDFromContext(ctx),
				Role:      auth.RoleFromContext(ctx),
				Resource:  resource,
				Action:    methodAction(req.Method),
				Method:    req.Method,
				Path:      req.URL.Path,
				RemoteIP:  c.RealIP(),
				Status:    status,
			}
			if resource == "patients" && rest != "" {
				entry.PatientID = strings.SplitN(rest, "/", 2)[0]
			} else {
				entry.PatientID = c.QueryParam("patient_id")
			}

			if recorder != nil {
				if recErr := recorder.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).Str("request_id", rid).Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("tenant_id", entry.TenantID).
				Str("user_id", entry.UserID).
				Str("role", entry.Role).
				Str("resource", entry.Resource).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("path", entry.Path).
				Int("status", entry.Status).
				Msg("data_access")

			return err
		}
	}
}

// splitResource turns /api/patients/123/notes into ("patients", "123/notes").
func splitResource(path string) (string, string) {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return "", ""
	}
	resource, tail, _ := strings.Cut(rest, "/")
	return resource, strings.Trim(tail, "/")
}

// methodAction maps an HTTP method to the audited action.
func methodAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
