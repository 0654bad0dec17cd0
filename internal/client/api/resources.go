package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// listLimit asks for the server's maximum page so lists are complete.
const listLimit = 500

// AuthResult is an undecoded login or registration response.
type AuthResult struct {
	Body          json.RawMessage
	Authorization string
}

// Authenticate posts to one of the /auth endpoints and returns the raw body
// together with the Authorization response header.
func (c *Client) Authenticate(ctx context.Context, path string, payload interface{}) (*AuthResult, error) {
	var raw json.RawMessage
	hdr, err := c.Do(ctx, http.MethodPost, path, payload, &raw)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Body: raw, Authorization: hdr.Get("Authorization")}, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// -- Patients --

// ListPatients returns the organization's patients, filtered by search when
// it is not empty.
func (c *Client) ListPatients(ctx context.Context, search string) ([]PatientRecord, error) {
	q := url.Values{"limit": {strconv.Itoa(listLimit)}}
	if search != "" {
		q.Set("search", search)
	}
	var out []PatientRecord
	_, err := c.Do(ctx, http.MethodGet, "/patients/?"+q.Encode(), nil, &out)
	return out, err
}

// CreatePatient registers a patient and returns the stored record.
func (c *Client) CreatePatient(ctx context.Context, p PatientPayload) (*PatientRecord, error) {
	var out PatientRecord
	if _, err := c.Do(ctx, http.MethodPost, "/patients/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListNotes returns a patient's clinical notes.
func (c *Client) ListNotes(ctx context.Context, patientID string) ([]NoteRecord, error) {
	var out []NoteRecord
	_, err := c.Do(ctx, http.MethodGet, "/patients/"+url.PathEscape(patientID)+"/notes", nil, &out)
	return out, err
}

// CreateNote adds a note to a patient.
func (c *Client) CreateNote(ctx context.Context, patientID string, n NotePayload) (*NoteRecord, error) {
	var out NoteRecord
	if _, err := c.Do(ctx, http.MethodPost, "/patients/"+url.PathEscape(patientID)+"/notes", n, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -- Appointments --

// ListAppointments returns up to listLimit appointments.
func (c *Client) ListAppointments(ctx context.Context) ([]AppointmentRecord, error) {
	var out []AppointmentRecord
	_, err := c.Do(ctx, http.MethodGet, "/appointments/?limit="+strconv.Itoa(listLimit), nil, &out)
	return out, err
}

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, a AppointmentPayload) (*AppointmentRecord, error) {
	var out AppointmentRecord
	if _, err := c.Do(ctx, http.MethodPost, "/appointments/", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAppointment applies a partial update to an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) error {
	_, err := c.Do(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id), patch, nil)
	return err
}

// -- Follow-ups --

// ListFollowUps returns up to listLimit follow-ups.
func (c *Client) ListFollowUps(ctx context.Context) ([]FollowUpRecord, error) {
	var out []FollowUpRecord
	_, err := c.Do(ctx, http.MethodGet, "/follow-ups/?limit="+strconv.Itoa(listLimit), nil, &out)
	return out, err
}

// CreateFollowUp creates a follow-up task.
func (c *Client) CreateFollowUp(ctx context.Context, f FollowUpPayload) (*FollowUpRecord, error) {
	var out FollowUpRecord
	if _, err := c.Do(ctx, http.MethodPost, "/follow-ups/", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFollowUp applies a partial update to a follow-up.
func (c *Client) UpdateFollowUp(ctx context.Context, id string, patch FollowUpPatch) error {
	_, err := c.Do(ctx, http.MethodPatch, "/follow-ups/"+url.PathEscape(id), patch, nil)
	return err
}

// -- Staff & dashboard --

// ListStaff returns every member of the caller's organization.
func (c *Client) ListStaff(ctx context.Context) ([]UserRecord, error) {
	var out []UserRecord
	_, err := c.Do(ctx, http.MethodGet, "/staff/", nil, &out)
	return out, err
}

// RemoveStaff deletes a staff account. Admin only.
func (c *Client) RemoveStaff(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/staff/"+url.PathEscape(id), nil, nil)
	return err
}

// DashboardStats returns the organization's summary counts.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardRecord, error) {
	var out DashboardRecord
	if _, err := c.Do(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
