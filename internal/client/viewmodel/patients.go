package viewmodel

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/mapper"
	"github.com/clinic/clinic/internal/client/model"
)

// Patients is the patient list screen state.
type Patients struct {
	backend Backend
	notify  Notifier
	logger  zerolog.Logger
	list    collection[model.Patient]
}

// NewPatients returns an empty patient list.
func NewPatients(backend Backend, notify Notifier, logger zerolog.Logger) *Patients {
	return &Patients{backend: backend, notify: orNop(notify), logger: logger}
}

// Load replaces the list with the backend's. On failure the previous list
// is kept.
func (p *Patients) Load(ctx context.Context) error {
	p.list.beginLoad()
	defer p.list.endLoad()

	recs, err := p.backend.ListPatients(ctx, "")
	if err != nil {
		p.logger.Error().Err(err).Msg("load patients")
		notifyError(p.notify, "Could not load patients", err)
		return err
	}
	items := make([]model.Patient, 0, len(recs))
	for _, r := range recs {
		items = append(items, mapper.PatientFromWire(r))
	}
	p.list.replace(items)
	return nil
}

// Loading reports whether a Load is in flight.
func (p *Patients) Loading() bool { return p.list.loading() }

// Items returns the patients in fetch order.
func (p *Patients) Items() []model.Patient { return p.list.snapshot() }

// Search filters by case-insensitive substring on name or email, keeping
// fetch order.
func (p *Patients) Search(q string) []model.Patient {
	var out []model.Patient
	for _, pt := range p.list.snapshot() {
		if matches(q, pt.Name, pt.Email) {
			out = append(out, pt)
		}
	}
	return out
}

// Get returns the patient with id.
func (p *Patients) Get(id string) (model.Patient, bool) {
	return p.list.find(func(pt model.Patient) bool { return pt.ID == id })
}

// Create validates in, posts it and appends the created patient.
func (p *Patients) Create(ctx context.Context, in model.PatientInput) (model.Patient, error) {
	switch {
	case blank(in.Name):
		return model.Patient{}, api.Required("name")
	case blank(in.Email):
		return model.Patient{}, api.Required("email")
	}
	if err := p.list.beginMutation(); err != nil {
		return model.Patient{}, err
	}
	defer p.list.endMutation()

	rec, err := p.backend.CreatePatient(ctx, mapper.PatientToWire(in))
	if err != nil {
		p.logger.Error().Err(err).Msg("create patient")
		notifyError(p.notify, "Could not add patient", err)
		return model.Patient{}, err
	}
	pt := mapper.PatientFromWire(*rec)
	p.list.add(pt)
	notifyInfo(p.notify, "Patient added")
	return pt, nil
}
