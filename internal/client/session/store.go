// Package session holds the signed-in identity and its bearer token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/model"
)

// Backend is the part of the API client the store needs.
type Backend interface {
	Authenticate(ctx context.Context, path string, payload interface{}) (*api.AuthResult, error)
	Logout(ctx context.Context) error
}

// Store is the session state: Anonymous until a login or registration
// succeeds, Authenticated until Logout. A failed attempt leaves the state
// unchanged.
type Store struct {
	backend Backend
	storage Storage
	logger  zerolog.Logger

	mu       sync.RWMutex
	identity *model.Identity
	token    string
}

// NewStore returns an anonymous store. Call Restore to pick up a persisted
// session.
func NewStore(backend Backend, storage Storage, logger zerolog.Logger) *Store {
	return &Store{backend: backend, storage: storage, logger: logger}
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (s *Store) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Authenticated reports whether an identity is signed in.
func (s *Store) Authenticated() bool {
	return s.Identity() != nil
}

// Restore loads the persisted identity. It never fails: unreadable storage
// yields nil, and a corrupt or incomplete entry is also removed.
func (s *Store) Restore() *model.Identity {
	raw, ok, err := s.storage.Get(UserKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read stored identity")
		return nil
	}
	if !ok {
		return nil
	}

	var id model.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || !id.Valid() {
		s.logger.Warn().Err(err).Msg("discarding corrupt stored identity")
		s.forget()
		return nil
	}
	token, ok, err := s.storage.Get(TokenKey)
	if err != nil || !ok || token == "" {
		s.logger.Warn().Err(err).Msg("stored identity has no token")
		s.forget()
		return nil
	}

	s.mu.Lock()
	s.identity = &id
	s.token = token
	s.mu.Unlock()
	return s.Identity()
}

// Login signs in with email and password. Blank fields are rejected before
// any request is made.
func (s *Store) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, api.Required("email")
	}
	if password == "" {
		return nil, api.Required("password")
	}
	res, err := s.backend.Authenticate(ctx, "/auth/login", api.LoginPayload{Email: email, Password: password})
	if err != nil {
		if api.IsStatus(err, http.StatusUnauthorized) {
			return nil, &api.AuthenticationError{Message: failureMessage(err)}
		}
		return nil, err
	}
	return s.complete(res)
}

// RegisterOrganization creates an organization and signs in as its admin.
func (s *Store) RegisterOrganization(ctx context.Context, orgName, adminName, email, password string) (*model.Identity, error) {
	payload := api.CompanyRegistrationPayload{
		CompanyName: strings.TrimSpace(orgName),
		AdminName:   strings.TrimSpace(adminName),
		Email:       strings.TrimSpace(email),
		Password:    password,
	}
	switch {
	case payload.CompanyName == "":
		return nil, api.Required("organization name")
	case payload.AdminName == "":
		return nil, api.Required("name")
	case payload.Email == "":
		return nil, api.Required("email")
	case payload.Password == "":
		return nil, api.Required("password")
	}
	res, err := s.backend.Authenticate(ctx, "/auth/register/company", payload)
	if err != nil {
		if api.IsStatus(err, http.StatusConflict) {
			return nil, &api.EmailAlreadyRegisteredError{Email: payload.Email}
		}
		return nil, err
	}
	return s.complete(res)
}

// RegisterStaffMember joins the organization owning orgCode as staff.
func (s *Store) RegisterStaffMember(ctx context.Context, orgCode, name, email, password string) (*model.Identity, error) {
	payload := api.StaffRegistrationPayload{
		CompanyCode: strings.ToUpper(strings.TrimSpace(orgCode)),
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Password:    password,
	}
	switch {
	case payload.CompanyCode == "":
		return nil, api.Required("organization code")
	case payload.Name == "":
		return nil, api.Required("name")
	case payload.Email == "":
		return nil, api.Required("email")
	case payload.Password == "":
		return nil, api.Required("password")
	}
	res, err := s.backend.Authenticate(ctx, "/auth/register/staff", payload)
	if err != nil {
		switch {
		case api.IsStatus(err, http.StatusNotFound):
			return nil, &api.InvalidInviteCodeError{Code: payload.CompanyCode}
		case api.IsStatus(err, http.StatusConflict):
			return nil, &api.EmailAlreadyRegisteredError{Email: payload.Email}
		}
		return nil, err
	}
	return s.complete(res)
}

// Logout tells the backend on a best-effort basis, then always clears the
// session.
func (s *Store) Logout(ctx context.Context) {
	if s.Token() != "" {
		if err := s.backend.Logout(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("logout request failed")
		}
	}
	s.forget()
	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()
}

func (s *Store) complete(res *api.AuthResult) (*model.Identity, error) {
	resp, err := DecodeAuthResponse(res.Body, res.Authorization)
	if err != nil {
		s.logger.Error().Err(err).Msg("unusable auth response")
		return nil, err
	}
	id, token, err := resp.Normalize()
	if err != nil {
		s.logger.Error().Err(err).Str("shape", resp.Shape.String()).Msg("unusable auth response")
		return nil, err
	}

	blob, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	// The token goes last: a stored token always belongs to the stored
	// identity, and an identity without one is discarded by Restore.
	if err := s.storage.Set(UserKey, string(blob)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if err := s.storage.Set(TokenKey, token); err != nil {
		s.forget()
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.identity = &id
	s.token = token
	s.mu.Unlock()
	s.logger.Info().Str("user_id", id.ID).Str("role", id.Role).Msg("signed in")
	return s.Identity(), nil
}

func (s *Store) forget() {
	for _, key := range []string{UserKey, TokenKey} {
		if err := s.storage.Delete(key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("clear stored session")
		}
	}
}

func failureMessage(err error) string {
	var rf *api.RequestFailedError
	if errors.As(err, &rf) {
		return rf.Message
	}
	return ""
}
