package viewmodel

import (
	"context"
	"strings"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/model"
)

// Backend is the REST surface the view-models use. *api.Client implements it.
type Backend interface {
	ListPatients(ctx context.Context, search string) ([]api.PatientRecord, error)
	CreatePatient(ctx context.Context, p api.PatientPayload) (*api.PatientRecord, error)
	ListNotes(ctx context.Context, patientID string) ([]api.NoteRecord, error)
	CreateNote(ctx context.Context, patientID string, n api.NotePayload) (*api.NoteRecord, error)

	ListAppointments(ctx context.Context) ([]api.AppointmentRecord, error)
	CreateAppointment(ctx context.Context, a api.AppointmentPayload) (*api.AppointmentRecord, error)
	UpdateAppointment(ctx context.Context, id string, patch api.AppointmentPatch) error

	ListFollowUps(ctx context.Context) ([]api.FollowUpRecord, error)
	CreateFollowUp(ctx context.Context, f api.FollowUpPayload) (*api.FollowUpRecord, error)
	UpdateFollowUp(ctx context.Context, id string, patch api.FollowUpPatch) error

	ListStaff(ctx context.Context) ([]api.UserRecord, error)
	RemoveStaff(ctx context.Context, id string) error

	DashboardStats(ctx context.Context) (*api.DashboardRecord, error)
}

// IdentitySource reports the signed-in user. *session.Store implements it.
type IdentitySource interface {
	Identity() *model.Identity
}

var _ Backend = (*api.Client)(nil)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// matches reports a case-insensitive substring match of q in any field.
func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
