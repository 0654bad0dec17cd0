package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/domain/followup"
)

type PatientCounter interface {
	CountPatients(ctx context.Context) (int, error)
}

type AppointmentSource interface {
	ListAppointments(ctx context.Context, f appointment.ListFilter) ([]*appointment.Appointment, error)
	CountAppointments(ctx context.Context, f appointment.ListFilter) (int, error)
}

type FollowUpSource interface {
	ListFollowUps(ctx context.Context, f followup.ListFilter) ([]*followup.FollowUp, error)
	CountFollowUps(ctx context.Context, f followup.ListFilter) (int, error)
}

// Service aggregates tenant statistics. Queries run one after another since
// they share the request's tenant connection.
type Service struct {
	patients     PatientCounter
	appointments AppointmentSource
	followUps    FollowUpSource
	now          func() time.Time
}

func NewService(patients PatientCounter, appointments AppointmentSource, followUps FollowUpSource) *Service {
	return &Service{patients: patients, appointments: appointments, followUps: followUps, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	today := s.now().Format("2006-01-02")
	var (
		st  Stats
		err error
	)

	if st.TotalPatients, err = s.patients.CountPatients(ctx); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	st.TodayAppointments, err = s.appointments.CountAppointments(ctx, appointment.ListFilter{
		StartDate: today, EndDate: today, Status: appointment.StatusScheduled,
	})
	if err != nil {
		return nil, fmt.Errorf("count today's appointments: %w", err)
	}
	if st.OpenFollowUps, err = s.followUps.CountFollowUps(ctx, followup.ListFilter{Status: followup.StatusOpen}); err != nil {
		return nil, fmt.Errorf("count open follow-ups: %w", err)
	}
	st.UpcomingAppointments, err = s.appointments.ListAppointments(ctx, appointment.ListFilter{
		StartDate: today, Status: appointment.StatusScheduled, Limit: ListSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	st.OpenFollowUpsList, err = s.followUps.ListFollowUps(ctx, followup.ListFilter{
		Status: followup.StatusOpen, Limit: ListSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list open follow-ups: %w", err)
	}

	if st.UpcomingAppointments == nil {
		st.UpcomingAppointments = []*appointment.Appointment{}
	}
	if st.OpenFollowUpsList == nil {
		st.OpenFollowUpsList = []*followup.FollowUp{}
	}
	return &st, nil
}
