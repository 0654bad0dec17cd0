package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/patient"
)

// PatientLookup resolves the patient a follow-up belongs to.
type PatientLookup interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientLookup
}

func NewService(repo Repository, patients PatientLookup) *Service {
	return &Service{repo: repo, patients: patients}
}

func (s *Service) CreateFollowUp(ctx context.Context, companyID uuid.UUID, in CreateInput) (*FollowUp, error) {
	patientID, err := uuid.Parse(strings.TrimSpace(in.PatientID))
	if err != nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	f := &FollowUp{
		PatientID:   patientID,
		Title:       strings.TrimSpace(in.Title),
		Description: blankToNil(in.Description),
		DueDate:     strings.TrimSpace(in.DueDate),
		Priority:    in.Priority,
		Status:      statusFor(in.Status, in.IsCompleted),
		CompanyID:   companyID,
	}
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	if f.Status == "" {
		f.Status = StatusOpen
	}
	if err := validate(f); err != nil {
		return nil, err
	}

	p, err := s.patients.GetPatient(ctx, patientID)
	if errors.Is(err, patient.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup patient: %w", err)
	}
	f.PatientName = p.Name

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create follow-up: %w", err)
	}
	f.syncCompleted()
	return f, nil
}

func (s *Service) GetFollowUp(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateFollowUp(ctx context.Context, id uuid.UUID, in UpdateInput) (*FollowUp, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		f.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		f.Description = blankToNil(in.Description)
	}
	if in.DueDate != nil {
		f.DueDate = strings.TrimSpace(*in.DueDate)
	}
	if in.Priority != nil {
		f.Priority = *in.Priority
	}
	var status string
	if in.Status != nil {
		status = *in.Status
	}
	if st := statusFor(status, in.IsCompleted); st != "" {
		f.Status = st
	}
	if err := validate(f); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	f.syncCompleted()
	return f, nil
}

func (s *Service) ListFollowUps(ctx context.Context, filter ListFilter) ([]*FollowUp, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, filter.Status)
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) CountFollowUps(ctx context.Context, filter ListFilter) (int, error) {
	return s.repo.Count(ctx, filter)
}

func validate(f *FollowUp) error {
	if f.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if _, err := time.Parse(dateLayout, f.DueDate); err != nil {
		return fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrInvalid)
	}
	if !validStatus(f.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, f.Status)
	}
	if !validPriority(f.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalid, f.Priority)
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
