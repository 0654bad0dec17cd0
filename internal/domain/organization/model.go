package organization

import (
	"time"

	"github.com/google/uuid"
)

// Company is a clinic account. Code is the invite code staff use to join.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User maps to shared.users joined with its company.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	CompanyID    uuid.UUID `db:"company_id" json:"company_id"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	CompanyCode  string    `db:"company_code" json:"company_code"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		CompanyID:   u.CompanyID.String(),
		CompanyName: u.CompanyName,
		CompanyCode: u.CompanyCode,
		CreatedAt:   u.CreatedAt,
	}
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	CompanyCode string    `json:"company_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TokenResponse is returned by login and both registration endpoints.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CompanyRegistration struct {
	CompanyName string `json:"companyName"`
	AdminName   string `json:"adminName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type StaffRegistration struct {
	CompanyCode string `json:"companyCode"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}
