package viewmodel

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/mapper"
	"github.com/clinic/clinic/internal/client/model"
)

// Dashboard holds the last stats fetched for the dashboard screen.
type Dashboard struct {
	backend Backend
	notify  Notifier
	logger  zerolog.Logger

	mu      sync.RWMutex
	stats   model.DashboardStats
	loads   int
	fetched bool
}

// NewDashboard returns a dashboard with zero stats.
func NewDashboard(backend Backend, notify Notifier, logger zerolog.Logger) *Dashboard {
	return &Dashboard{backend: backend, notify: orNop(notify), logger: logger}
}

// Load fetches the stats. On failure the previous stats are kept.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.loads++
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.loads--
		d.mu.Unlock()
	}()

	rec, err := d.backend.DashboardStats(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("load dashboard")
		notifyError(d.notify, "Could not load dashboard", err)
		return err
	}
	st := mapper.DashboardFromWire(*rec)

	d.mu.Lock()
	d.stats = st
	d.fetched = true
	d.mu.Unlock()
	return nil
}

// Loading reports whether a Load is in flight.
func (d *Dashboard) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loads > 0
}

// Stats returns the last loaded statistics; ok is false before the first
// successful load.
func (d *Dashboard) Stats() (model.DashboardStats, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st := d.stats
	st.UpcomingAppointments = append([]model.Appointment(nil), d.stats.UpcomingAppointments...)
	st.OpenFollowUpsList = append([]model.FollowUp(nil), d.stats.OpenFollowUpsList...)
	return st, d.fetched
}
