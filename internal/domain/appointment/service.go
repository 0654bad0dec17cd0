package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/patient"
)

// PatientLookup resolves the patient an appointment is booked for.
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

func (s *Service) CreateAppointment(ctx context.Context, companyID uuid.UUID, in CreateInput) (*Appointment, error) {
	patientID, err := uuid.Parse(strings.TrimSpace(in.PatientID))
	if err != nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	a := &Appointment{
		PatientID: patientID,
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		Reason:    strings.TrimSpace(in.Reason),
		Type:      strings.TrimSpace(in.Type),
		Notes:     in.Notes,
		Status:    in.Status,
		CompanyID: companyID,
	}
	if a.Type == "" {
		a.Type = DefaultType
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if err := validate(a); err != nil {
		return nil, err
	}

	p, err := s.patients.GetPatient(ctx, patientID)
	if errors.Is(err, patient.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup patient: %w", err)
	}
	a.PatientName = p.Name

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAppointment applies a partial update. A completed or cancelled
// appointment cannot change status again.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && *in.Status != a.Status && terminal(a.Status) {
		return nil, fmt.Errorf("%w: appointment is already %s", ErrInvalid, a.Status)
	}
	if in.Date != nil {
		a.Date = strings.TrimSpace(*in.Date)
	}
	if in.Time != nil {
		a.Time = strings.TrimSpace(*in.Time)
	}
	if in.Reason != nil {
		a.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAppointments(ctx context.Context, f ListFilter) ([]*Appointment, error) {
	if f.Status != "" && !validStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, f.Status)
	}
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalid)
		}
	}
	return s.repo.List(ctx, f)
}

func (s *Service) CountAppointments(ctx context.Context, f ListFilter) (int, error) {
	return s.repo.Count(ctx, f)
}

func validate(a *Appointment) error {
	if a.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalid)
	}
	if _, err := time.Parse(dateLayout, a.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	if _, err := time.Parse(timeLayout, a.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalid)
	}
	if !validStatus(a.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, a.Status)
	}
	return nil
}
