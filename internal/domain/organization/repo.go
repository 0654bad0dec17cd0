package organization

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists companies and users in the shared schema.
type Repository interface {
	CreateCompany(ctx context.Context, c *Company) error
	CompanyByCode(ctx context.Context, code string) (*Company, error)
	CreateUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, companyID uuid.UUID) ([]*User, error)
	DeleteUser(ctx context.Context, companyID, userID uuid.UUID) error
}

// Transactor runs fn so that repository calls made with the ctx it receives
// commit or roll back together.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Provisioner creates the per-tenant schema for a new company.
type Provisioner interface {
	Provision(ctx context.Context, tenantID string) error
}
