package organization

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

const (
	codePrefix       = "CLINIC"
	maxCodeAttempts  = 50
	minPasswordChars = 6
)

type Service struct {
	repo        Repository
	tx          Transactor
	provisioner Provisioner
	tokens      *auth.TokenIssuer
	revocations *auth.TokenRevocationStore
	logger      zerolog.Logger
	newCode     func() string
}

func NewService(repo Repository, tx Transactor, provisioner Provisioner, tokens *auth.TokenIssuer, revocations *auth.TokenRevocationStore, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		tx:          tx,
		provisioner: provisioner,
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
		newCode:     randomCode,
	}
}

// randomCode returns "CLINIC" followed by three digits.
func randomCode() string {
	return fmt.Sprintf("%s%03d", codePrefix, rand.IntN(1000))
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.UserByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// RegisterCompany creates a company with a fresh invite code, its tenant
// schema, and its first admin.
func (s *Service) RegisterCompany(ctx context.Context, req CompanyRegistration) (*TokenResponse, error) {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: companyName is required", ErrInvalid)
	}
	email, err := s.checkNewUser(ctx, req.AdminName, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var u *User
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.freeCode(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.provisioner.Provision(ctx, db.TenantID(code)); err != nil {
			return nil, fmt.Errorf("provision tenant %s: %w", code, err)
		}

		company := &Company{Name: name, Code: code}
		u = &User{Email: email, PasswordHash: hash, Name: strings.TrimSpace(req.AdminName), Role: auth.RoleAdmin}
		err = s.tx.WithTx(ctx, func(ctx context.Context) error {
			if err := s.repo.CreateCompany(ctx, company); err != nil {
				return err
			}
			u.CompanyID = company.ID
			return s.repo.CreateUser(ctx, u)
		})
		if errors.Is(err, ErrCodeTaken) {
			// lost a race for the code
			continue
		}
		if err != nil {
			return nil, err
		}
		u.CompanyName, u.CompanyCode = company.Name, company.Code
		s.logger.Info().Str("company_code", code).Str("user_id", u.ID.String()).Msg("company registered")
		return s.issue(u)
	}
	return nil, fmt.Errorf("could not allocate a company code after %d attempts", maxCodeAttempts)
}

func (s *Service) freeCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := s.newCode()
		_, err := s.repo.CompanyByCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check company code: %w", err)
		}
	}
	return "", fmt.Errorf("could not allocate a company code after %d attempts", maxCodeAttempts)
}

// RegisterStaff joins an existing company by its invite code.
func (s *Service) RegisterStaff(ctx context.Context, req StaffRegistration) (*TokenResponse, error) {
	email, err := s.checkNewUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	company, err := s.repo.CompanyByCode(ctx, strings.ToUpper(strings.TrimSpace(req.CompanyCode)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("lookup company: %w", err)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         auth.RoleStaff,
		CompanyID:    company.ID,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	u.CompanyName, u.CompanyCode = company.Name, company.Code
	s.logger.Info().Str("company_code", company.Code).Str("user_id", u.ID.String()).Msg("staff registered")
	return s.issue(u)
}

// CreateCompany provisions a company without users, for operators seeding
// an organization with a known code.
func (s *Service) CreateCompany(ctx context.Context, name, code string) (*Company, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: name and code are required", ErrInvalid)
	}
	if err := s.provisioner.Provision(ctx, db.TenantID(code)); err != nil {
		return nil, fmt.Errorf("provision tenant %s: %w", code, err)
	}
	company := &Company{Name: name, Code: code}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) checkNewUser(ctx context.Context, name, email, password string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalid)
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w: email is not valid", ErrInvalid)
	}
	if len(password) < minPasswordChars {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordChars)
	}
	email = strings.ToLower(addr.Address)

	_, err = s.repo.UserByEmail(ctx, email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return email, nil
}

func (s *Service) issue(u *User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(auth.Subject{
		UserID:    u.ID.String(),
		TenantID:  db.TenantID(u.CompanyCode),
		CompanyID: u.CompanyID.String(),
		Role:      u.Role,
	})
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer", User: u.Response()}, nil
}

// Logout revokes the presented token until it would have expired.
func (s *Service) Logout(jti string, expiresAt time.Time) {
	if s.revocations == nil || jti == "" {
		return
	}
	s.revocations.Revoke(jti, expiresAt)
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.UserByID(ctx, userID)
}

func (s *Service) ListStaff(ctx context.Context, companyID uuid.UUID) ([]*User, error) {
	return s.repo.ListUsers(ctx, companyID)
}

// RemoveStaff deletes a member of the actor's company and invalidates every
// token they hold.
func (s *Service) RemoveStaff(ctx context.Context, companyID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return ErrSelfRemoval
	}
	if err := s.repo.DeleteUser(ctx, companyID, userID); err != nil {
		return err
	}
	if s.revocations != nil {
		s.revocations.RevokeUser(userID.String())
	}
	s.logger.Info().Str("user_id", userID.String()).Str("removed_by", actorID.String()).Msg("staff removed")
	return nil
}
