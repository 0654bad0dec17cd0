package viewmodel

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/mapper"
	"github.com/clinic/clinic/internal/client/model"
)

// Appointments is the appointment list screen state. It also holds the
// patients offered by the booking form.
type Appointments struct {
	backend  Backend
	notify   Notifier
	logger   zerolog.Logger
	list     collection[model.Appointment]
	patients collection[model.Patient]
}

// NewAppointments returns an empty appointment list. A nil notify discards
// notifications.
func NewAppointments(backend Backend, notify Notifier, logger zerolog.Logger) *Appointments {
	return &Appointments{backend: backend, notify: orNop(notify), logger: logger}
}

// DateGroup is one calendar day of appointments.
type DateGroup struct {
	Date         string
	Appointments []model.Appointment
}

// Load fetches appointments and patients together. Either failing keeps
// the previous state of both.
func (a *Appointments) Load(ctx context.Context) error {
	a.list.beginLoad()
	defer a.list.endLoad()

	var (
		appts    []api.AppointmentRecord
		patients []api.PatientRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = a.backend.ListAppointments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		patients, err = a.backend.ListPatients(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error().Err(err).Msg("load appointments")
		notifyError(a.notify, "Could not load appointments", err)
		return err
	}

	items := make([]model.Appointment, 0, len(appts))
	for _, r := range appts {
		items = append(items, mapper.AppointmentFromWire(r))
	}
	pts := make([]model.Patient, 0, len(patients))
	for _, r := range patients {
		pts = append(pts, mapper.PatientFromWire(r))
	}
	a.list.replace(items)
	a.patients.replace(pts)
	return nil
}

// Loading reports whether a Load is in flight.
func (a *Appointments) Loading() bool { return a.list.loading() }

// Pending reports whether a change is being saved.
func (a *Appointments) Pending() bool { return a.list.pending() }

// Items returns the appointments in fetch order.
func (a *Appointments) Items() []model.Appointment { return a.list.snapshot() }

// Patients returns the patients offered by the booking form.
func (a *Appointments) Patients() []model.Patient { return a.patients.snapshot() }

// Get returns the appointment with id.
func (a *Appointments) Get(id string) (model.Appointment, bool) {
	return a.list.find(func(x model.Appointment) bool { return x.ID == id })
}

// Filter returns the appointments with the given status, or all of them for
// model.StatusAll, sorted by date and time.
func (a *Appointments) Filter(status string) []model.Appointment {
	var out []model.Appointment
	for _, x := range a.list.snapshot() {
		if status == model.StatusAll || x.Status == status {
			out = append(out, x)
		}
	}
	SortAppointments(out)
	return out
}

// GroupByDate splits Filter(status) into consecutive per-day groups.
func (a *Appointments) GroupByDate(status string) []DateGroup {
	var groups []DateGroup
	for _, x := range a.Filter(status) {
		if n := len(groups); n > 0 && groups[n-1].Date == x.Date {
			groups[n-1].Appointments = append(groups[n-1].Appointments, x)
			continue
		}
		groups = append(groups, DateGroup{Date: x.Date, Appointments: []model.Appointment{x}})
	}
	return groups
}

// SortAppointments orders by start instant, ascending. Entries whose date or
// time does not parse fall back to comparing the raw strings.
func SortAppointments(items []model.Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, oki := items[i].Start()
		tj, okj := items[j].Start()
		if oki && okj {
			return ti.Before(tj)
		}
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
}

// Create books an appointment. The patient name comes from the backend, or
// from the loaded patients when the backend leaves it out.
func (a *Appointments) Create(ctx context.Context, in model.AppointmentInput) (model.Appointment, error) {
	switch {
	case blank(in.PatientID):
		return model.Appointment{}, api.Required("patient")
	case blank(in.Date):
		return model.Appointment{}, api.Required("date")
	case blank(in.Time):
		return model.Appointment{}, api.Required("time")
	case blank(in.Reason):
		return model.Appointment{}, api.Required("reason")
	}
	if err := a.list.beginMutation(); err != nil {
		return model.Appointment{}, err
	}
	defer a.list.endMutation()

	rec, err := a.backend.CreateAppointment(ctx, mapper.AppointmentToWire(in))
	if err != nil {
		a.logger.Error().Err(err).Msg("create appointment")
		notifyError(a.notify, "Could not book appointment", err)
		return model.Appointment{}, err
	}
	appt := mapper.AppointmentFromWire(*rec)
	if rec.PatientName == "" && rec.PatientNameAlt == "" {
		appt.PatientName = a.patientName(appt.PatientID)
	}
	a.list.add(appt)
	notifyInfo(a.notify, "Appointment booked")
	return appt, nil
}

func (a *Appointments) patientName(id string) string {
	if p, ok := a.patients.find(func(p model.Patient) bool { return p.ID == id }); ok {
		return p.Name
	}
	return model.UnknownPatient
}

// UpdateStatus applies status locally, then saves it. If saving fails the
// list is reloaded from the backend, discarding the local change.
// Completed and cancelled appointments are final.
func (a *Appointments) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case model.AppointmentScheduled, model.AppointmentCompleted, model.AppointmentCancelled:
	default:
		return &api.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	cur, ok := a.Get(id)
	if !ok {
		return &api.ValidationError{Field: "id", Message: "unknown appointment " + id}
	}
	if cur.Terminal() && cur.Status != status {
		return &api.ValidationError{Field: "status", Message: "appointment is already " + cur.Status}
	}
	if err := a.list.beginMutation(); err != nil {
		return err
	}
	defer a.list.endMutation()

	a.list.update(func(x model.Appointment) bool { return x.ID == id }, func(x *model.Appointment) { x.Status = status })

	if err := a.backend.UpdateAppointment(ctx, id, mapper.AppointmentStatusPatch(status)); err != nil {
		a.logger.Error().Err(err).Str("appointment_id", id).Msg("update appointment status")
		notifyError(a.notify, "Could not update appointment", err)
		rctx, cancel := rollbackContext(ctx)
		defer cancel()
		a.Load(rctx)
		return err
	}
	return nil
}
