package viewmodel

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/mapper"
	"github.com/clinic/clinic/internal/client/model"
)

// Staff is the staff administration screen state.
type Staff struct {
	backend  Backend
	identity IdentitySource
	notify   Notifier
	logger   zerolog.Logger
	list     collection[model.StaffMember]
}

// NewStaff returns an empty staff list. identity tells it who is signed in.
func NewStaff(backend Backend, identity IdentitySource, notify Notifier, logger zerolog.Logger) *Staff {
	return &Staff{backend: backend, identity: identity, notify: orNop(notify), logger: logger}
}

// Load fetches the staff list.
func (s *Staff) Load(ctx context.Context) error {
	s.list.beginLoad()
	defer s.list.endLoad()

	recs, err := s.backend.ListStaff(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load staff")
		notifyError(s.notify, "Could not load staff", err)
		return err
	}
	items := make([]model.StaffMember, 0, len(recs))
	for _, r := range recs {
		items = append(items, mapper.StaffFromWire(r))
	}
	s.list.replace(items)
	return nil
}

// Loading reports whether a Load is in flight.
func (s *Staff) Loading() bool { return s.list.loading() }

// Items returns the staff in load order.
func (s *Staff) Items() []model.StaffMember { return s.list.snapshot() }

// Search filters by case-insensitive substring on name or email.
func (s *Staff) Search(q string) []model.StaffMember {
	var out []model.StaffMember
	for _, m := range s.list.snapshot() {
		if matches(q, m.Name, m.Email) {
			out = append(out, m)
		}
	}
	return out
}

// Remove deletes a staff member. Only admins may remove, and never
// themselves.
func (s *Staff) Remove(ctx context.Context, id string) error {
	me := s.identity.Identity()
	switch {
	case !me.IsAdmin():
		return &api.ValidationError{Message: "only admins can remove staff"}
	case me.ID == id:
		return &api.ValidationError{Message: "you cannot remove yourself"}
	}
	if err := s.list.beginMutation(); err != nil {
		return err
	}
	defer s.list.endMutation()

	if err := s.backend.RemoveStaff(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("staff_id", id).Msg("remove staff")
		notifyError(s.notify, "Could not remove staff member", err)
		return err
	}
	s.list.remove(func(m model.StaffMember) bool { return m.ID == id })
	notifyInfo(s.notify, "Staff member removed")
	return nil
}
