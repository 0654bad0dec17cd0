package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Appointment statuses. Completed and cancelled are terminal.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const DefaultType = "consultation"

// Appointment maps to the appointments table. PatientName is resolved at
// read time from the patients table.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	Reason      string    `db:"reason" json:"reason"`
	Type        string    `db:"type" json:"type"`
	Notes       string    `db:"notes" json:"notes"`
	Status      string    `db:"status" json:"status"`
	CompanyID   uuid.UUID `db:"company_id" json:"company_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateInput struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
	Status    string `json:"status"`
}

// UpdateInput is a PATCH body; nil fields are left unchanged.
type UpdateInput struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Reason *string `json:"reason"`
	Status *string `json:"status"`
}

// ListFilter narrows a listing. Dates are inclusive YYYY-MM-DD bounds.
type ListFilter struct {
	StartDate string
	EndDate   string
	Status    string
	Limit     int
}

func validStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func terminal(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}
