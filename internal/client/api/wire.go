package api

import (
	"bytes"
	"encoding/json"
)

// ID is an opaque backend identifier. It decodes from a JSON string or
// number; null decodes to "".
type ID string

// UnmarshalJSON accepts both JSON strings and numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// -- Records: response bodies --

// UserRecord is a user as the backend returns it.
type UserRecord struct {
	ID          ID     `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyID   ID     `json:"company_id"`
	CompanyName string `json:"company_name"`
	CompanyCode string `json:"company_code"`
	CreatedAt   string `json:"created_at"`
}

// PatientRecord is a patient as the backend returns it.
type PatientRecord struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	CompanyID   ID     `json:"company_id"`
	CreatedAt   string `json:"created_at"`
}

// AppointmentRecord accepts the patient name as patient_name or patientName.
type AppointmentRecord struct {
	ID             ID     `json:"id"`
	PatientID      ID     `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	PatientNameAlt string `json:"patientName"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Reason         string `json:"reason"`
	Type           string `json:"type"`
	Notes          string `json:"notes"`
	Status         string `json:"status"`
	CompanyID      ID     `json:"company_id"`
	CreatedAt      string `json:"created_at"`
}

// FollowUpRecord is a follow-up as the backend returns it. The patient name
// arrives under either patient_name or patientName.
type FollowUpRecord struct {
	ID             ID     `json:"id"`
	PatientID      ID     `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	PatientNameAlt string `json:"patientName"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	DueDate        string `json:"due_date"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	IsCompleted    bool   `json:"is_completed"`
	CompanyID      ID     `json:"company_id"`
	CreatedAt      string `json:"created_at"`
}

// NoteRecord accepts the author name as created_by or createdBy.
type NoteRecord struct {
	ID           ID     `json:"id"`
	PatientID    ID     `json:"patient_id"`
	Content      string `json:"content"`
	CreatedBy    string `json:"created_by"`
	CreatedByAlt string `json:"createdBy"`
	CreatedAt    string `json:"created_at"`
}

// DashboardRecord is the body of GET /dashboard/stats.
type DashboardRecord struct {
	TotalPatients        int                 `json:"totalPatients"`
	TodayAppointments    int                 `json:"todayAppointments"`
	OpenFollowUps        int                 `json:"openFollowUps"`
	UpcomingAppointments []AppointmentRecord `json:"upcomingAppointments"`
	OpenFollowUpsList    []FollowUpRecord    `json:"openFollowUpsList"`
}

// -- Payloads: request bodies --

// LoginPayload is the body of POST /auth/login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CompanyRegistrationPayload is the body of POST /auth/register/company.
type CompanyRegistrationPayload struct {
	CompanyName string `json:"companyName"`
	AdminName   string `json:"adminName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// StaffRegistrationPayload is the body of POST /auth/register/staff.
type StaffRegistrationPayload struct {
	CompanyCode string `json:"companyCode"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// PatientPayload is the body of POST /patients.
type PatientPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address"`
}

// AppointmentPayload is the body of POST /appointments.
type AppointmentPayload struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// AppointmentPatch is a partial appointment update. Empty fields are left
// unchanged.
type AppointmentPatch struct {
	Status string `json:"status,omitempty"`
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// FollowUpPayload is the body of POST /follow-ups.
type FollowUpPayload struct {
	PatientID   string `json:"patient_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	IsCompleted bool   `json:"is_completed"`
}

// FollowUpPatch always carries both fields so they cannot disagree.
type FollowUpPatch struct {
	Status      string `json:"status"`
	IsCompleted bool   `json:"is_completed"`
}

// NotePayload is the body of POST /patients/:id/notes.
type NotePayload struct {
	Content string `json:"content"`
}
