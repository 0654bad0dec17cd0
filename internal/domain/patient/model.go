package patient

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Patient maps to the patients table of a tenant schema.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	DateOfBirth *string   `db:"date_of_birth" json:"date_of_birth"`
	Address     *string   `db:"address" json:"address"`
	CompanyID   uuid.UUID `db:"company_id" json:"company_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Input carries create and update payloads. Nil fields are left unchanged
// on update. The date of birth is accepted as either date_of_birth or
// dateOfBirth.
type Input struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth"`
	DateOfBirthAlt *string `json:"dateOfBirth"`
	Address        *string `json:"address"`
}

func (in *Input) dob() *string {
	if in.DateOfBirth != nil {
		return in.DateOfBirth
	}
	return in.DateOfBirthAlt
}

// Note maps to the notes table. CreatedBy is the author's name.
type Note struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	Content         string    `db:"content" json:"content"`
	CreatedByUserID uuid.UUID `db:"created_by_user_id" json:"created_by_user_id"`
	CreatedBy       string    `db:"created_by" json:"created_by"`
	CompanyID       uuid.UUID `db:"company_id" json:"company_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type NoteInput struct {
	Content string `json:"content"`
}
