// Package mapper translates between the REST wire records and the client
// model. Every function is pure.
package mapper

import (
	"strings"
	"time"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/model"
)

const (
	defaultAppointmentType = "consultation"
	defaultPriority        = "medium"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTime reads a backend timestamp. Unparseable values yield the zero
// time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// dateOnly trims a timestamp to its calendar date.
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		return s[:10]
	}
	return s
}

func patientName(primary, alt string) string {
	if primary != "" {
		return primary
	}
	if alt != "" {
		return alt
	}
	return model.UnknownPatient
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// -- Identity & staff --

// IdentityFromWire maps the signed-in user, organization fields included.
func IdentityFromWire(u api.UserRecord) model.Identity {
	return model.Identity{
		ID:               string(u.ID),
		Email:            u.Email,
		DisplayName:      u.Name,
		Role:             u.Role,
		OrganizationID:   string(u.CompanyID),
		OrganizationName: u.CompanyName,
		OrganizationCode: u.CompanyCode,
	}
}

// StaffFromWire maps a user as it appears in the staff list.
func StaffFromWire(u api.UserRecord) model.StaffMember {
	return model.StaffMember{
		ID:             string(u.ID),
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: string(u.CompanyID),
		JoinedAt:       ParseTime(u.CreatedAt),
	}
}

// -- Patients --

// PatientFromWire maps a patient record. Optional fields stay empty when
// absent.
func PatientFromWire(r api.PatientRecord) model.Patient {
	return model.Patient{
		ID:             string(r.ID),
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		DateOfBirth:    dateOnly(r.DateOfBirth),
		Address:        r.Address,
		OrganizationID: string(r.CompanyID),
		CreatedAt:      ParseTime(r.CreatedAt),
	}
}

// PatientToWire trims the form input into a create payload.
func PatientToWire(in model.PatientInput) api.PatientPayload {
	return api.PatientPayload{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		DateOfBirth: dateOnly(in.DateOfBirth),
		Address:     strings.TrimSpace(in.Address),
	}
}

// -- Appointments --

// AppointmentFromWire maps an appointment, accepting either patient name
// key and falling back to model.UnknownPatient.
func AppointmentFromWire(r api.AppointmentRecord) model.Appointment {
	return model.Appointment{
		ID:             string(r.ID),
		PatientID:      string(r.PatientID),
		PatientName:    patientName(r.PatientName, r.PatientNameAlt),
		Date:           dateOnly(r.Date),
		Time:           r.Time,
		Reason:         r.Reason,
		Type:           r.Type,
		Notes:          r.Notes,
		Status:         r.Status,
		OrganizationID: string(r.CompanyID),
		CreatedAt:      ParseTime(r.CreatedAt),
	}
}

// AppointmentToWire fills the type, status and notes the backend expects
// when the caller leaves them empty.
func AppointmentToWire(in model.AppointmentInput) api.AppointmentPayload {
	return api.AppointmentPayload{
		PatientID: in.PatientID,
		Date:      in.Date,
		Time:      in.Time,
		Reason:    in.Reason,
		Type:      orDefault(in.Type, defaultAppointmentType),
		Status:    orDefault(in.Status, model.AppointmentScheduled),
		Notes:     in.Notes,
	}
}

// AppointmentStatusPatch builds a patch that changes only the status.
func AppointmentStatusPatch(status string) api.AppointmentPatch {
	return api.AppointmentPatch{Status: status}
}

// -- Follow-ups --

// FollowUpFromWire maps a follow-up. A missing status is derived from
// is_completed.
func FollowUpFromWire(r api.FollowUpRecord) model.FollowUp {
	status := r.Status
	if status == "" {
		status = model.FollowUpOpen
		if r.IsCompleted {
			status = model.FollowUpCompleted
		}
	}
	return model.FollowUp{
		ID:             string(r.ID),
		PatientID:      string(r.PatientID),
		PatientName:    patientName(r.PatientName, r.PatientNameAlt),
		Title:          r.Title,
		Description:    r.Description,
		DueDate:        dateOnly(r.DueDate),
		Priority:       r.Priority,
		Status:         status,
		OrganizationID: string(r.CompanyID),
		CreatedAt:      ParseTime(r.CreatedAt),
	}
}

// FollowUpToWire creates follow-ups open, not completed, at medium priority
// unless a priority is given.
func FollowUpToWire(in model.FollowUpInput) api.FollowUpPayload {
	return api.FollowUpPayload{
		PatientID:   in.PatientID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    orDefault(in.Priority, defaultPriority),
		Status:      model.FollowUpOpen,
		IsCompleted: false,
	}
}

// FollowUpStatusPatch builds a patch that sets status and is_completed
// together.
func FollowUpStatusPatch(status string) api.FollowUpPatch {
	return api.FollowUpPatch{Status: status, IsCompleted: status == model.FollowUpCompleted}
}

// -- Notes & dashboard --

// NoteFromWire maps a clinical note.
func NoteFromWire(r api.NoteRecord) model.Note {
	by := r.CreatedBy
	if by == "" {
		by = r.CreatedByAlt
	}
	return model.Note{
		ID:        string(r.ID),
		PatientID: string(r.PatientID),
		Content:   r.Content,
		CreatedBy: by,
		CreatedAt: ParseTime(r.CreatedAt),
	}
}

// DashboardFromWire maps the dashboard counts and preview lists.
func DashboardFromWire(r api.DashboardRecord) model.DashboardStats {
	st := model.DashboardStats{
		TotalPatients:     r.TotalPatients,
		TodayAppointments: r.TodayAppointments,
		OpenFollowUps:     r.OpenFollowUps,
	}
	for _, a := range r.UpcomingAppointments {
		st.UpcomingAppointments = append(st.UpcomingAppointments, AppointmentFromWire(a))
	}
	for _, f := range r.OpenFollowUpsList {
		st.OpenFollowUpsList = append(st.OpenFollowUpsList, FollowUpFromWire(f))
	}
	return st
}
