package followup

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/patient"
)

// -- Mock Repository --

type mockRepo struct {
	mu    sync.Mutex
	store map[uuid.UUID]*FollowUp
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*FollowUp)}
}

func (m *mockRepo) Create(_ context.Context, f *FollowUp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	cp := *f
	m.store[f.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*FollowUp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	cp.syncCompleted()
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, f *FollowUp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[f.ID]; !ok {
		return ErrNotFound
	}
	cp := *f
	m.store[f.ID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter) ([]*FollowUp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*FollowUp
	for _, f := range m.store {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		cp := *f
		cp.syncCompleted()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	filter.Limit = 0
	items, _ := m.List(ctx, filter)
	return len(items), nil
}

type mockPatients map[uuid.UUID]*patient.Patient

func (m mockPatients) GetPatient(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

var (
	testCompany = uuid.New()
	testPatient = &patient.Patient{ID: uuid.New(), Name: "Ann Lee", Email: "ann@example.com"}
)

func newTestService() *Service {
	return NewService(newMockRepo(), mockPatients{testPatient.ID: testPatient})
}

func validInput() CreateInput {
	return CreateInput{PatientID: testPatient.ID.String(), Title: "Call with lab results", DueDate: "2024-03-01"}
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

// -- Tests --

func TestCreateFollowUp_Defaults(t *testing.T) {
	svc := newTestService()
	f, err := svc.CreateFollowUp(context.Background(), testCompany, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Priority != PriorityMedium || f.Status != StatusOpen || f.IsCompleted {
		t.Errorf("expected medium/open/not completed, got %s/%s/%v", f.Priority, f.Status, f.IsCompleted)
	}
	if f.PatientName != "Ann Lee" {
		t.Errorf("expected patient name, got %q", f.PatientName)
	}
	if f.Description != nil {
		t.Error("expected nil description")
	}
}

func TestCreateFollowUp_CompletedFlag(t *testing.T) {
	svc := newTestService()
	in := validInput()
	in.IsCompleted = boolp(true)
	f, err := svc.CreateFollowUp(context.Background(), testCompany, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != StatusCompleted || !f.IsCompleted {
		t.Errorf("expected is_completed to select completed, got %s", f.Status)
	}

	in.Status = StatusOpen
	f, _ = svc.CreateFollowUp(context.Background(), testCompany, in)
	if f.Status != StatusOpen || f.IsCompleted {
		t.Errorf("expected explicit status to win, got %s/%v", f.Status, f.IsCompleted)
	}
}

func TestCreateFollowUp_Validation(t *testing.T) {
	svc := newTestService()
	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing patient", func(in *CreateInput) { in.PatientID = "" }},
		{"missing title", func(in *CreateInput) { in.Title = "" }},
		{"missing due date", func(in *CreateInput) { in.DueDate = "" }},
		{"bad priority", func(in *CreateInput) { in.Priority = "urgent" }},
		{"bad status", func(in *CreateInput) { in.Status = "closed" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.CreateFollowUp(context.Background(), testCompany, in); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	in := validInput()
	in.PatientID = uuid.NewString()
	if _, err := svc.CreateFollowUp(context.Background(), testCompany, in); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestUpdateFollowUp_Toggle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	f, _ := svc.CreateFollowUp(ctx, testCompany, validInput())

	done, err := svc.UpdateFollowUp(ctx, f.ID, UpdateInput{Status: strp(StatusCompleted), IsCompleted: boolp(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done.IsCompleted {
		t.Error("expected completed")
	}

	reopened, err := svc.UpdateFollowUp(ctx, f.ID, UpdateInput{IsCompleted: boolp(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reopened.Status != StatusOpen || reopened.IsCompleted {
		t.Errorf("expected follow-up to reopen, got %s", reopened.Status)
	}
	if reopened.Title != "Call with lab results" {
		t.Errorf("expected title unchanged, got %q", reopened.Title)
	}

	if _, err := svc.UpdateFollowUp(ctx, uuid.New(), UpdateInput{Status: strp(StatusOpen)}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFollowUps(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, due := range []string{"2024-03-01", "2024-01-15", "2024-02-10"} {
		in := validInput()
		in.DueDate = due
		svc.CreateFollowUp(ctx, testCompany, in)
	}
	items, _ := svc.ListFollowUps(ctx, ListFilter{Status: StatusOpen, Limit: 2})
	if len(items) != 2 || items[0].DueDate != "2024-01-15" || items[1].DueDate != "2024-02-10" {
		t.Errorf("expected two earliest due, got %+v", items)
	}
	n, _ := svc.CountFollowUps(ctx, ListFilter{Status: StatusOpen})
	if n != 3 {
		t.Errorf("expected 3 open, got %d", n)
	}
	if _, err := svc.ListFollowUps(ctx, ListFilter{Status: "pending"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
