package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List filters by case-insensitive substring of name or email when
	// search is non-empty.
	List(ctx context.Context, search string, limit, offset int) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
}

type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	// ListByPatient returns notes newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error)
}
