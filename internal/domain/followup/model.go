package followup

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// FollowUp maps to the follow_ups table. IsCompleted mirrors Status and is
// never stored.
type FollowUp struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	DueDate     string    `db:"due_date" json:"due_date"`
	Priority    string    `db:"priority" json:"priority"`
	Status      string    `db:"status" json:"status"`
	IsCompleted bool      `json:"is_completed"`
	CompanyID   uuid.UUID `db:"company_id" json:"company_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (f *FollowUp) syncCompleted() {
	f.IsCompleted = f.Status == StatusCompleted
}

type CreateInput struct {
	PatientID   string  `json:"patient_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	IsCompleted *bool   `json:"is_completed"`
}

// UpdateInput is a PATCH body; nil fields are left unchanged. When status is
// absent, is_completed selects it.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	IsCompleted *bool   `json:"is_completed"`
}

type ListFilter struct {
	Status string
	Limit  int
}

func statusFor(status string, completed *bool) string {
	if status != "" || completed == nil {
		return status
	}
	if *completed {
		return StatusCompleted
	}
	return StatusOpen
}

func validStatus(s string) bool {
	return s == StatusOpen || s == StatusCompleted
}

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
