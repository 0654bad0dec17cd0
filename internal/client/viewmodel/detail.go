package viewmodel

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/mapper"
	"github.com/clinic/clinic/internal/client/model"
)

// ErrPatientNotLoaded is returned by LoadFor when the patient is not in the
// loaded patient list.
var ErrPatientNotLoaded = errors.New("patient not found in loaded patients")

// PatientDetail aggregates one patient with its appointments, follow-ups
// and notes. Appointments and follow-ups come from the already loaded list
// view-models; notes are fetched.
type PatientDetail struct {
	backend      Backend
	patients     *Patients
	appointments *Appointments
	followUps    *FollowUps
	identity     IdentitySource
	notify       Notifier
	logger       zerolog.Logger
	now          func() time.Time

	mu         sync.RWMutex
	patient    *model.Patient
	appts      []model.Appointment
	fus        []model.FollowUp
	notes      []model.Note
	addingNote bool
}

// NewPatientDetail builds a detail view over already loaded lists.
func NewPatientDetail(backend Backend, patients *Patients, appointments *Appointments, followUps *FollowUps,
	identity IdentitySource, notify Notifier, logger zerolog.Logger) *PatientDetail {
	return &PatientDetail{
		backend:      backend,
		patients:     patients,
		appointments: appointments,
		followUps:    followUps,
		identity:     identity,
		notify:       orNop(notify),
		logger:       logger,
		now:          time.Now,
	}
}

// LoadFor selects a patient from the loaded patient list and fetches their
// notes. It returns ErrPatientNotLoaded for an unknown id without making
// a request.
func (d *PatientDetail) LoadFor(ctx context.Context, patientID string) error {
	p, ok := d.patients.Get(patientID)
	if !ok {
		notifyError(d.notify, "Patient not found", ErrPatientNotLoaded)
		return ErrPatientNotLoaded
	}

	var appts []model.Appointment
	for _, a := range d.appointments.Filter(model.StatusAll) {
		if a.PatientID == patientID {
			appts = append(appts, a)
		}
	}
	var fus []model.FollowUp
	for _, f := range d.followUps.Filter(model.StatusAll) {
		if f.PatientID == patientID {
			fus = append(fus, f)
		}
	}

	recs, err := d.backend.ListNotes(ctx, patientID)
	if err != nil {
		d.logger.Error().Err(err).Str("patient_id", patientID).Msg("load notes")
		notifyError(d.notify, "Could not load notes", err)
		return err
	}
	notes := make([]model.Note, 0, len(recs))
	for _, r := range recs {
		notes = append(notes, mapper.NoteFromWire(r))
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })

	d.mu.Lock()
	d.patient = &p
	d.appts = appts
	d.fus = fus
	d.notes = notes
	d.mu.Unlock()
	return nil
}

// Patient returns the selected patient.
func (d *PatientDetail) Patient() (model.Patient, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.patient == nil {
		return model.Patient{}, false
	}
	return *d.patient, true
}

// Appointments returns the patient's appointments in schedule order.
func (d *PatientDetail) Appointments() []model.Appointment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.Appointment(nil), d.appts...)
}

// FollowUps returns the patient's follow-ups in list order.
func (d *PatientDetail) FollowUps() []model.FollowUp {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.FollowUp(nil), d.fus...)
}

// Notes returns the notes, newest first.
func (d *PatientDetail) Notes() []model.Note {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.Note(nil), d.notes...)
}

// AddNote saves a note and puts it first. The author and time fall back to
// the signed-in user and now when the backend omits them.
func (d *PatientDetail) AddNote(ctx context.Context, content string) (model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Note{}, api.Required("note")
	}
	d.mu.Lock()
	if d.patient == nil {
		d.mu.Unlock()
		return model.Note{}, &api.ValidationError{Message: "no patient loaded"}
	}
	if d.addingNote {
		d.mu.Unlock()
		return model.Note{}, ErrMutationPending
	}
	d.addingNote = true
	patientID := d.patient.ID
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.addingNote = false
		d.mu.Unlock()
	}()

	rec, err := d.backend.CreateNote(ctx, patientID, api.NotePayload{Content: content})
	if err != nil {
		d.logger.Error().Err(err).Str("patient_id", patientID).Msg("add note")
		notifyError(d.notify, "Could not save note", err)
		return model.Note{}, err
	}
	note := mapper.NoteFromWire(*rec)
	if note.PatientID == "" {
		note.PatientID = patientID
	}
	if note.Content == "" {
		note.Content = content
	}
	if note.CreatedBy == "" {
		if me := d.identity.Identity(); me != nil {
			note.CreatedBy = me.DisplayName
		}
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = d.now()
	}

	d.mu.Lock()
	if d.patient != nil && d.patient.ID == patientID {
		d.notes = append([]model.Note{note}, d.notes...)
	}
	d.mu.Unlock()
	notifyInfo(d.notify, "Note added")
	return note, nil
}
