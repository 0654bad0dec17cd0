package dashboard

import (
	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/domain/followup"
)

// ListSize bounds the upcoming appointment and open follow-up lists.
const ListSize = 5

type Stats struct {
	TotalPatients        int                        `json:"totalPatients"`
	TodayAppointments    int                        `json:"todayAppointments"`
	OpenFollowUps        int                        `json:"openFollowUps"`
	UpcomingAppointments []*appointment.Appointment `json:"upcomingAppointments"`
	OpenFollowUpsList    []*followup.FollowUp       `json:"openFollowUpsList"`
}
