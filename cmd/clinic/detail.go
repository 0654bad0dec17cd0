package main

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/clinic/clinic/internal/client/viewmodel"
)

// loadDetail loads the three list view-models the detail screen draws from,
// then the detail for patientID.
func (a *app) loadDetail(ctx context.Context, patientID string) (*viewmodel.PatientDetail, error) {
	notify := a.notifier()
	patients := viewmodel.NewPatients(a.client, notify, a.logger)
	appts := viewmodel.NewAppointments(a.client, notify, a.logger)
	followUps := viewmodel.NewFollowUps(a.client, notify, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return patients.Load(gctx) })
	g.Go(func() error { return appts.Load(gctx) })
	g.Go(func() error { return followUps.Load(gctx) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := viewmodel.NewPatientDetail(a.client, patients, appts, followUps, a.store, notify, a.logger)
	if err := detail.LoadFor(ctx, patientID); err != nil {
		return nil, err
	}
	return detail, nil
}
