package followup

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, f *FollowUp) error
	GetByID(ctx context.Context, id uuid.UUID) (*FollowUp, error)
	Update(ctx context.Context, f *FollowUp) error
	List(ctx context.Context, filter ListFilter) ([]*FollowUp, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}
