// Package model holds the client-side records the view-models work with.
package model

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// StatusAll is the filter sentinel that matches every status.
const StatusAll = "all"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

const (
	FollowUpOpen      = "open"
	FollowUpCompleted = "completed"
)

// UnknownPatient is shown when a record carries no patient name.
const UnknownPatient = "Unknown"

// Identity is the signed-in user. It is persisted as JSON between runs.
type Identity struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName"`
	Role             string `json:"role"`
	OrganizationID   string `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
	OrganizationCode string `json:"organizationCode,omitempty"`
}

// Valid reports whether the identity is usable: it needs an id, an email
// and a known role.
func (i *Identity) Valid() bool {
	if i == nil || i.ID == "" || i.Email == "" {
		return false
	}
	return i.Role == RoleAdmin || i.Role == RoleStaff
}

// IsAdmin reports whether the user administers their organization.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Patient is a person registered with the organization.
type Patient struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	DateOfBirth    string
	Address        string
	OrganizationID string
	CreatedAt      time.Time
}

// PatientInput is the patient registration form.
type PatientInput struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Address     string
}

// Appointment is a booked visit. PatientName is a snapshot taken when the
// record was fetched.
type Appointment struct {
	ID             string
	PatientID      string
	PatientName    string
	Date           string
	Time           string
	Reason         string
	Type           string
	Notes          string
	Status         string
	OrganizationID string
	CreatedAt      time.Time
}

// Start combines Date and Time. ok is false when either does not parse.
func (a Appointment) Start() (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, time.Local)
	return t, err == nil
}

// Input returns the fields an appointment is created from.
func (a Appointment) Input() AppointmentInput {
	return AppointmentInput{
		PatientID: a.PatientID,
		Date:      a.Date,
		Time:      a.Time,
		Reason:    a.Reason,
		Type:      a.Type,
		Notes:     a.Notes,
		Status:    a.Status,
	}
}

// Terminal reports whether the appointment can no longer change status.
func (a Appointment) Terminal() bool {
	return a.Status == AppointmentCompleted || a.Status == AppointmentCancelled
}

// AppointmentInput is the booking form.
type AppointmentInput struct {
	PatientID string
	Date      string
	Time      string
	Reason    string
	Type      string
	Notes     string
	Status    string
}

// FollowUp is a task attached to a patient.
type FollowUp struct {
	ID             string
	PatientID      string
	PatientName    string
	Title          string
	Description    string
	DueDate        string
	Priority       string
	Status         string
	OrganizationID string
	CreatedAt      time.Time
}

// Completed reports whether the follow-up is done.
func (f FollowUp) Completed() bool {
	return f.Status == FollowUpCompleted
}

// FollowUpInput is the follow-up creation form.
type FollowUpInput struct {
	PatientID   string
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// Note is a free-text clinical note on a patient.
type Note struct {
	ID        string
	PatientID string
	Content   string
	CreatedBy string
	CreatedAt time.Time
}

// StaffMember is a user of the organization as shown in the staff list.
type StaffMember struct {
	ID             string
	Name           string
	Email          string
	Role           string
	OrganizationID string
	JoinedAt       time.Time
}

// DashboardStats summarizes the organization for the dashboard.
type DashboardStats struct {
	TotalPatients        int
	TodayAppointments    int
	OpenFollowUps        int
	UpcomingAppointments []Appointment
	OpenFollowUpsList    []FollowUp
}
