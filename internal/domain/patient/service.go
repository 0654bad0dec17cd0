package patient

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
	notes    NoteRepository
	now      func() time.Time
}

func NewService(patients Repository, notes NoteRepository) *Service {
	return &Service{patients: patients, notes: notes, now: time.Now}
}

func (s *Service) CreatePatient(ctx context.Context, companyID uuid.UUID, in Input) (*Patient, error) {
	p := &Patient{CompanyID: companyID}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// UpdatePatient applies the non-nil fields of in.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in Input) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, search string, limit, offset int) ([]*Patient, error) {
	return s.patients.List(ctx, search, limit, offset)
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}

func (s *Service) apply(p *Patient, in Input) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		p.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		p.Address = blankToNil(*in.Address)
	}
	if dob := in.dob(); dob != nil {
		p.DateOfBirth = blankToNil(*dob)
	}

	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if p.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrInvalid)
	}
	if p.DateOfBirth != nil {
		d, err := time.Parse(dateLayout, *p.DateOfBirth)
		if err != nil {
			return fmt.Errorf("%w: date of birth must be YYYY-MM-DD", ErrInvalid)
		}
		if d.After(s.now()) {
			return fmt.Errorf("%w: date of birth is in the future", ErrInvalid)
		}
	}
	return nil
}

func blankToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// -- Notes --

func (s *Service) ListNotes(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.notes.ListByPatient(ctx, patientID)
}

func (s *Service) AddNote(ctx context.Context, patientID, authorID, companyID uuid.UUID, content string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	n := &Note{
		PatientID:       patientID,
		Content:         content,
		CreatedByUserID: authorID,
		CompanyID:       companyID,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}
