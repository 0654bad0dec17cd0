package viewmodel

import (
	"context"
	"net/http"
	"testing"
)

func TestDashboard_Load(t *testing.T) {
	client, _ := newTestBackend(t)
	vm := NewDashboard(client, nil, nop)

	if _, ok := vm.Stats(); ok {
		t.Error("expected no stats before load")
	}
	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, ok := vm.Stats()
	if !ok {
		t.Fatal("expected stats after load")
	}
	if st.TotalPatients != 2 || st.TodayAppointments != 1 || st.OpenFollowUps != 1 {
		t.Errorf("unexpected counts %+v", st)
	}
	if len(st.UpcomingAppointments) != 1 || st.UpcomingAppointments[0].ID != "a1" {
		t.Errorf("unexpected upcoming %+v", st.UpcomingAppointments)
	}
	if len(st.OpenFollowUpsList) != 1 || st.OpenFollowUpsList[0].ID != "f2" {
		t.Errorf("unexpected follow-ups %+v", st.OpenFollowUpsList)
	}
}

func TestDashboard_LoadFailureKeepsStats(t *testing.T) {
	client, fake := newTestBackend(t)
	rec := &recorder{}
	vm := NewDashboard(client, rec, nop)
	ctx := context.Background()
	vm.Load(ctx)

	fake.fail(http.MethodGet, "/dashboard/stats", http.StatusServiceUnavailable)
	if err := vm.Load(ctx); err == nil {
		t.Fatal("expected error")
	}
	if st, ok := vm.Stats(); !ok || st.TotalPatients != 2 {
		t.Error("expected previous stats kept")
	}
	if vm.Loading() {
		t.Error("expected loading to be false")
	}
	if rec.errors() != 1 {
		t.Errorf("expected one notification, got %d", rec.errors())
	}
}
