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

// FollowUps is the follow-up task list screen state.
type FollowUps struct {
	backend  Backend
	notify   Notifier
	logger   zerolog.Logger
	list     collection[model.FollowUp]
	patients collection[model.Patient]
}

// NewFollowUps returns an empty follow-up list.
func NewFollowUps(backend Backend, notify Notifier, logger zerolog.Logger) *FollowUps {
	return &FollowUps{backend: backend, notify: orNop(notify), logger: logger}
}

// Load fetches follow-ups and patients together. Either failing keeps the
// previous state of both.
func (f *FollowUps) Load(ctx context.Context) error {
	f.list.beginLoad()
	defer f.list.endLoad()

	var (
		recs     []api.FollowUpRecord
		patients []api.PatientRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = f.backend.ListFollowUps(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		patients, err = f.backend.ListPatients(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		f.logger.Error().Err(err).Msg("load follow-ups")
		notifyError(f.notify, "Could not load follow-ups", err)
		return err
	}

	items := make([]model.FollowUp, 0, len(recs))
	for _, r := range recs {
		items = append(items, mapper.FollowUpFromWire(r))
	}
	pts := make([]model.Patient, 0, len(patients))
	for _, r := range patients {
		pts = append(pts, mapper.PatientFromWire(r))
	}
	f.list.replace(items)
	f.patients.replace(pts)
	return nil
}

// Loading reports whether a Load is in flight.
func (f *FollowUps) Loading() bool { return f.list.loading() }

// Pending reports whether a status change is still being saved.
func (f *FollowUps) Pending() bool { return f.list.pending() }

// Items returns the follow-ups in load order.
func (f *FollowUps) Items() []model.FollowUp { return f.list.snapshot() }

// Patients returns the patients offered by the creation form.
func (f *FollowUps) Patients() []model.Patient { return f.patients.snapshot() }

// Get returns the follow-up with id.
func (f *FollowUps) Get(id string) (model.FollowUp, bool) {
	return f.list.find(func(x model.FollowUp) bool { return x.ID == id })
}

// Filter returns the follow-ups with the given status, or all of them for
// model.StatusAll, open first and then by due date.
func (f *FollowUps) Filter(status string) []model.FollowUp {
	var out []model.FollowUp
	for _, x := range f.list.snapshot() {
		if status == model.StatusAll || x.Status == status {
			out = append(out, x)
		}
	}
	SortFollowUps(out)
	return out
}

// SortFollowUps orders open items before completed ones, then by due date.
func SortFollowUps(items []model.FollowUp) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := items[i].Completed(), items[j].Completed()
		if ci != cj {
			return !ci
		}
		return items[i].DueDate < items[j].DueDate
	})
}

// Create validates in and creates the follow-up, defaulting priority to
// medium and status to open.
func (f *FollowUps) Create(ctx context.Context, in model.FollowUpInput) (model.FollowUp, error) {
	switch {
	case blank(in.PatientID):
		return model.FollowUp{}, api.Required("patient")
	case blank(in.Title):
		return model.FollowUp{}, api.Required("title")
	case blank(in.DueDate):
		return model.FollowUp{}, api.Required("due date")
	}
	if err := f.list.beginMutation(); err != nil {
		return model.FollowUp{}, err
	}
	defer f.list.endMutation()

	rec, err := f.backend.CreateFollowUp(ctx, mapper.FollowUpToWire(in))
	if err != nil {
		f.logger.Error().Err(err).Msg("create follow-up")
		notifyError(f.notify, "Could not create follow-up", err)
		return model.FollowUp{}, err
	}
	fu := mapper.FollowUpFromWire(*rec)
	if rec.PatientName == "" && rec.PatientNameAlt == "" {
		fu.PatientName = model.UnknownPatient
		if p, ok := f.patients.find(func(p model.Patient) bool { return p.ID == fu.PatientID }); ok {
			fu.PatientName = p.Name
		}
	}
	f.list.add(fu)
	notifyInfo(f.notify, "Follow-up created")
	return fu, nil
}

// UpdateStatus applies status locally, then saves it, reloading on failure.
func (f *FollowUps) UpdateStatus(ctx context.Context, id, status string) error {
	if status != model.FollowUpOpen && status != model.FollowUpCompleted {
		return &api.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	if _, ok := f.Get(id); !ok {
		return &api.ValidationError{Field: "id", Message: "unknown follow-up " + id}
	}
	if err := f.list.beginMutation(); err != nil {
		return err
	}
	defer f.list.endMutation()

	f.list.update(func(x model.FollowUp) bool { return x.ID == id }, func(x *model.FollowUp) { x.Status = status })

	if err := f.backend.UpdateFollowUp(ctx, id, mapper.FollowUpStatusPatch(status)); err != nil {
		f.logger.Error().Err(err).Str("follow_up_id", id).Msg("update follow-up status")
		notifyError(f.notify, "Could not update follow-up", err)
		rctx, cancel := rollbackContext(ctx)
		defer cancel()
		f.Load(rctx)
		return err
	}
	return nil
}

// Toggle flips a follow-up between open and completed.
func (f *FollowUps) Toggle(ctx context.Context, id string) error {
	cur, ok := f.Get(id)
	if !ok {
		return &api.ValidationError{Field: "id", Message: "unknown follow-up " + id}
	}
	next := model.FollowUpCompleted
	if cur.Completed() {
		next = model.FollowUpOpen
	}
	return f.UpdateStatus(ctx, id, next)
}
