package viewmodel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/model"
)

// fakeAPI is an in-memory clinic backend.
type fakeAPI struct {
	mu           sync.Mutex
	patients     []map[string]interface{}
	appointments []map[string]interface{}
	followUps    []map[string]interface{}
	notes        []map[string]interface{}
	staff        []map[string]interface{}

	requests  []string
	failPaths map[string]int // "METHOD /path" -> status
	// patchGate, when set, holds PATCH requests until it is closed.
	patchGate    chan struct{}
	patchArrived chan struct{}
	omitNames    bool
	// patchStall holds PATCH requests until the caller gives up.
	patchStall bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		failPaths: make(map[string]int),
		patients: []map[string]interface{}{
			{"id": "p1", "name": "Ann Lee", "email": "ann@example.com", "phone": "555-0100", "company_id": "c1", "created_at": "2024-01-01T08:00:00Z"},
			{"id": "p2", "name": "Bob Stone", "email": "bob@clinic.org", "company_id": "c1", "created_at": "2024-01-02T08:00:00Z"},
		},
		appointments: []map[string]interface{}{
			{"id": "a1", "patient_id": "p1", "patient_name": "Ann Lee", "date": "2024-01-02", "time": "09:00", "reason": "Checkup", "status": "scheduled", "company_id": "c1"},
			{"id": "a2", "patient_id": "p2", "patient_name": "Bob Stone", "date": "2024-01-01", "time": "10:00", "reason": "Flu", "status": "scheduled", "company_id": "c1"},
			{"id": "a3", "patient_id": "p1", "patientName": "Ann Lee", "date": "2024-01-01", "time": "08:30", "reason": "Labs", "status": "cancelled", "company_id": "c1"},
		},
		followUps: []map[string]interface{}{
			{"id": "f1", "patient_id": "p1", "patient_name": "Ann Lee", "title": "Review labs", "due_date": "2024-01-01", "status": "completed", "is_completed": true, "company_id": "c1"},
			{"id": "f2", "patient_id": "p2", "patient_name": "Bob Stone", "title": "Call back", "due_date": "2024-03-01", "status": "open", "is_completed": false, "company_id": "c1"},
		},
		notes: []map[string]interface{}{
			{"id": "n1", "patient_id": "p1", "content": "older", "created_by": "Dr. Ada", "created_at": "2024-01-01T08:00:00Z"},
			{"id": "n2", "patient_id": "p1", "content": "newer", "created_by": "Dr. Ada", "created_at": "2024-01-05T08:00:00Z"},
		},
		staff: []map[string]interface{}{
			{"id": "u-admin", "name": "Dr. Admin", "email": "admin@cityhealth.test", "role": "admin", "company_id": "c1", "created_at": "2024-01-01T00:00:00Z"},
			{"id": "u-joy", "name": "Nurse Joy", "email": "joy@cityhealth.test", "role": "staff", "company_id": "c1", "created_at": "2024-01-02T00:00:00Z"},
		},
	}
}

func (f *fakeAPI) fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPaths[method+" "+path] = status
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) requestsFor(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api"), "/")

	if r.Method == http.MethodPatch {
		f.mu.Lock()
		gate, arrived, stall := f.patchGate, f.patchArrived, f.patchStall
		f.mu.Unlock()
		if stall {
			<-r.Context().Done()
			return
		}
		if arrived != nil {
			arrived <- struct{}{}
		}
		if gate != nil {
			<-gate
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, key)

	w.Header().Set("Content-Type", "application/json")
	if status, ok := f.failPaths[key]; ok {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"detail": "injected failure"})
		return
	}

	var body map[string]interface{}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}
	write := func(status int, v interface{}) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch {
	case key == "GET /patients":
		write(http.StatusOK, f.patients)
	case key == "POST /patients":
		rec := map[string]interface{}{"id": "p-new", "name": body["name"], "email": body["email"], "date_of_birth": body["dateOfBirth"], "company_id": "c1"}
		f.patients = append(f.patients, rec)
		write(http.StatusCreated, rec)
	case key == "GET /appointments":
		write(http.StatusOK, f.appointments)
	case key == "POST /appointments":
		rec := map[string]interface{}{}
		for k, v := range body {
			rec[k] = v
		}
		rec["id"] = "a-new"
		if !f.omitNames {
			rec["patient_name"] = "From Server"
		}
		f.appointments = append(f.appointments, rec)
		write(http.StatusCreated, rec)
	case strings.HasPrefix(key, "PATCH /appointments/"):
		id := strings.TrimPrefix(key, "PATCH /appointments/")
		for _, a := range f.appointments {
			if a["id"] == id {
				a["status"] = body["status"]
				write(http.StatusOK, a)
				return
			}
		}
		write(http.StatusNotFound, map[string]string{"detail": "Appointment not found"})
	case key == "GET /follow-ups":
		write(http.StatusOK, f.followUps)
	case key == "POST /follow-ups":
		rec := map[string]interface{}{}
		for k, v := range body {
			rec[k] = v
		}
		rec["id"] = "f-new"
		f.followUps = append(f.followUps, rec)
		write(http.StatusCreated, rec)
	case strings.HasPrefix(key, "PATCH /follow-ups/"):
		id := strings.TrimPrefix(key, "PATCH /follow-ups/")
		for _, fu := range f.followUps {
			if fu["id"] == id {
				fu["status"] = body["status"]
				fu["is_completed"] = body["is_completed"]
				write(http.StatusOK, fu)
				return
			}
		}
		write(http.StatusNotFound, map[string]string{"detail": "FollowUp not found"})
	case strings.HasPrefix(key, "GET /patients/") && strings.HasSuffix(key, "/notes"):
		id := strings.TrimSuffix(strings.TrimPrefix(key, "GET /patients/"), "/notes")
		out := []map[string]interface{}{}
		for _, n := range f.notes {
			if n["patient_id"] == id {
				out = append(out, n)
			}
		}
		write(http.StatusOK, out)
	case strings.HasPrefix(key, "POST /patients/") && strings.HasSuffix(key, "/notes"):
		rec := map[string]interface{}{"id": "n-new", "content": body["content"]}
		f.notes = append(f.notes, rec)
		write(http.StatusCreated, rec)
	case key == "GET /staff":
		write(http.StatusOK, f.staff)
	case strings.HasPrefix(key, "DELETE /staff/"):
		w.WriteHeader(http.StatusNoContent)
	case key == "GET /dashboard/stats":
		write(http.StatusOK, map[string]interface{}{
			"totalPatients": len(f.patients), "todayAppointments": 1, "openFollowUps": 1,
			"upcomingAppointments": f.appointments[:1], "openFollowUpsList": f.followUps[1:],
		})
	default:
		write(http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.notes {
		if x.Level == LevelError {
			n++
		}
	}
	return n
}

type staticIdentity struct{ id *model.Identity }

func (s staticIdentity) Identity() *model.Identity { return s.id }

func newTestBackend(t *testing.T) (*api.Client, *fakeAPI) {
	t.Helper()
	fake := newFakeAPI()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return api.New(srv.URL + "/api"), fake
}

var nop = zerolog.Nop()
