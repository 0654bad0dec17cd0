package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/model"
)

// -- Fake backend --

type fakeUser struct {
	id, email, password, name, role, code string
}

type fakeBackend struct {
	mu         sync.Mutex
	companies  map[string]string // code -> name
	users      map[string]*fakeUser
	calls      int
	logouts    int
	failLogout bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		companies: map[string]string{"CLINIC001": "City Health Clinic"},
		users: map[string]*fakeUser{
			"admin@cityhealth.test": {id: "u-admin", email: "admin@cityhealth.test", password: "secret1", name: "Dr. Admin", role: "admin", code: "CLINIC001"},
		},
	}
}

func (f *fakeBackend) tokenBody(u *fakeUser) map[string]interface{} {
	return map[string]interface{}{
		"access_token": "tok-" + u.id,
		"token_type":   "bearer",
		"user": map[string]interface{}{
			"id": u.id, "email": u.email, "name": u.name, "role": u.role,
			"company_id": "c-" + u.code, "company_name": f.companies[u.code], "company_code": u.code,
		},
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	w.Header().Set("Content-Type", "application/json")
	fail := func(status int, detail string) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	}

	switch r.URL.Path {
	case "/api/auth/login":
		u, ok := f.users[body["email"]]
		if !ok || u.password != body["password"] {
			fail(http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		json.NewEncoder(w).Encode(f.tokenBody(u))
	case "/api/auth/register/staff":
		if _, ok := f.users[body["email"]]; ok {
			fail(http.StatusConflict, "Email already registered")
			return
		}
		if _, ok := f.companies[body["companyCode"]]; !ok {
			fail(http.StatusNotFound, "Invalid company code")
			return
		}
		u := &fakeUser{id: "u-" + body["email"], email: body["email"], password: body["password"], name: body["name"], role: "staff", code: body["companyCode"]}
		f.users[u.email] = u
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(f.tokenBody(u))
	case "/api/auth/register/company":
		if _, ok := f.users[body["email"]]; ok {
			fail(http.StatusConflict, "Email already registered")
			return
		}
		code := "CLINIC002"
		f.companies[code] = body["companyName"]
		u := &fakeUser{id: "u-" + body["email"], email: body["email"], password: body["password"], name: body["adminName"], role: "admin", code: code}
		f.users[u.email] = u
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(f.tokenBody(u))
	case "/api/auth/logout":
		f.logouts++
		if f.failLogout {
			fail(http.StatusInternalServerError, "boom")
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Successfully logged out"})
	default:
		fail(http.StatusNotFound, "Not Found")
	}
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestStore(t *testing.T, storage Storage) (*Store, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	var store *Store
	client := api.New(srv.URL+"/api", api.WithTokenSource(api.TokenFunc(func() string { return store.Token() })))
	store = NewStore(client, storage, zerolog.Nop())
	return store, fb
}

// -- Login --

func TestLogin_Success(t *testing.T) {
	storage := NewMemoryStorage()
	store, _ := newTestStore(t, storage)

	id, err := store.Login(context.Background(), "admin@cityhealth.test", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.Identity{
		ID: "u-admin", Email: "admin@cityhealth.test", DisplayName: "Dr. Admin", Role: "admin",
		OrganizationID: "c-CLINIC001", OrganizationName: "City Health Clinic", OrganizationCode: "CLINIC001",
	}
	if *id != want {
		t.Errorf("got %+v, want %+v", *id, want)
	}
	if !store.Authenticated() || store.Token() != "tok-u-admin" {
		t.Error("expected store to be authenticated with the token")
	}
	if tok, _, _ := storage.Get(TokenKey); tok != "tok-u-admin" {
		t.Errorf("expected token persisted, got %q", tok)
	}
	raw, _, _ := storage.Get(UserKey)
	var persisted model.Identity
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil || persisted != want {
		t.Errorf("expected identity persisted, got %s", raw)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryStorage())
	_, err := store.Login(context.Background(), "admin@cityhealth.test", "wrong")
	var ae *api.AuthenticationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if ae.Message != "Incorrect email or password" {
		t.Errorf("unexpected message %q", ae.Message)
	}
	if store.Authenticated() {
		t.Error("expected store to stay anonymous")
	}
}

func TestLogin_FailureKeepsPriorIdentity(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryStorage())
	ctx := context.Background()
	if _, err := store.Login(ctx, "admin@cityhealth.test", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Login(ctx, "admin@cityhealth.test", "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if id := store.Identity(); id == nil || id.ID != "u-admin" {
		t.Errorf("expected prior identity to survive, got %+v", id)
	}
}

func TestLogin_EmptyFieldsNoNetwork(t *testing.T) {
	store, fb := newTestStore(t, NewMemoryStorage())
	_, err := store.Login(context.Background(), " ", "x")
	var ve *api.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if fb.callCount() != 0 {
		t.Errorf("expected no requests, got %d", fb.callCount())
	}
}

func TestLogin_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"t","user":{"email":"a@b.c","role":"staff"}}`))
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	store := NewStore(api.New(srv.URL), storage, zerolog.Nop())
	_, err := store.Login(context.Background(), "a@b.c", "pw")
	var mr *api.MalformedResponseError
	if !errors.As(err, &mr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if store.Authenticated() {
		t.Error("expected no identity")
	}
	if _, ok, _ := storage.Get(UserKey); ok {
		t.Error("expected nothing persisted")
	}
}

func TestLogin_TokenFromHeaderAndBareUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer hdr-token")
		w.Write([]byte(`{"id":7,"email":"a@b.c","name":"Amy","role":"staff","company_id":3,"company_name":"Clinic"}`))
	}))
	defer srv.Close()

	store := NewStore(api.New(srv.URL), NewMemoryStorage(), zerolog.Nop())
	id, err := store.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ID != "7" || id.OrganizationID != "3" || store.Token() != "hdr-token" {
		t.Errorf("unexpected identity %+v token %q", id, store.Token())
	}
}

// -- Registration --

func TestRegisterStaffMember_CLINIC001(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryStorage())
	ctx := context.Background()

	id, err := store.RegisterStaffMember(ctx, "clinic001", "Nurse Joy", "joy@cityhealth.test", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Role != model.RoleStaff || id.OrganizationName != "City Health Clinic" {
		t.Errorf("expected staff of City Health Clinic, got %+v", id)
	}

	other, _ := newTestStore(t, NewMemoryStorage())
	_, err = other.RegisterStaffMember(ctx, "CLINIC001", "Joy Again", "admin@cityhealth.test", "secret1")
	var dup *api.EmailAlreadyRegisteredError
	if !errors.As(err, &dup) {
		t.Fatalf("expected EmailAlreadyRegisteredError, got %v", err)
	}
	if other.Authenticated() {
		t.Error("expected failed registration to leave store anonymous")
	}
}

func TestRegisterStaffMember_InvalidCode(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryStorage())
	_, err := store.RegisterStaffMember(context.Background(), "NOPE", "Joy", "joy@example.com", "secret1")
	var ic *api.InvalidInviteCodeError
	if !errors.As(err, &ic) || ic.Code != "NOPE" {
		t.Fatalf("expected InvalidInviteCodeError, got %v", err)
	}
}

func TestRegisterOrganization(t *testing.T) {
	store, fb := newTestStore(t, NewMemoryStorage())
	ctx := context.Background()

	if _, err := store.RegisterOrganization(ctx, "", "Ann", "ann@example.com", "pw"); err == nil {
		t.Error("expected ValidationError for empty organization name")
	}
	if fb.callCount() != 0 {
		t.Errorf("expected no requests, got %d", fb.callCount())
	}

	id, err := store.RegisterOrganization(ctx, "Lakeside Clinic", "Ann", "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Role != model.RoleAdmin || id.OrganizationName != "Lakeside Clinic" || id.OrganizationCode != "CLINIC002" {
		t.Errorf("unexpected identity %+v", id)
	}

	_, err = store.RegisterOrganization(ctx, "Another", "Ann", "ann@example.com", "secret1")
	var dup *api.EmailAlreadyRegisteredError
	if !errors.As(err, &dup) {
		t.Errorf("expected EmailAlreadyRegisteredError, got %v", err)
	}
}

// -- Logout & restore --

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	storage := NewMemoryStorage()
	store, fb := newTestStore(t, storage)
	ctx := context.Background()
	store.Login(ctx, "admin@cityhealth.test", "secret1")

	fb.mu.Lock()
	fb.failLogout = true
	fb.mu.Unlock()

	store.Logout(ctx)
	if store.Authenticated() || store.Token() != "" {
		t.Error("expected anonymous store after logout")
	}
	if _, ok, _ := storage.Get(UserKey); ok {
		t.Error("expected stored identity to be removed")
	}
	if _, ok, _ := storage.Get(TokenKey); ok {
		t.Error("expected stored token to be removed")
	}
	if fb.logouts != 1 {
		t.Errorf("expected one logout call, got %d", fb.logouts)
	}
}

func TestRestore_Idempotent(t *testing.T) {
	storage := NewMemoryStorage()
	store, _ := newTestStore(t, storage)
	store.Login(context.Background(), "admin@cityhealth.test", "secret1")

	fresh, _ := newTestStore(t, storage)
	first := fresh.Restore()
	second := fresh.Restore()
	if first == nil || second == nil || *first != *second {
		t.Fatalf("expected identical identities, got %+v and %+v", first, second)
	}
	if fresh.Token() != "tok-u-admin" {
		t.Errorf("expected token restored, got %q", fresh.Token())
	}
}

func TestRestore_EmptyOrCorrupt(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryStorage())
	if store.Restore() != nil {
		t.Error("expected nil for empty storage")
	}

	tests := map[string]string{
		"invalid json":  `{"id":`,
		"not an object": `"hello"`,
		"missing id":    `{"email":"a@b.c","role":"staff"}`,
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			storage.Set(UserKey, blob)
			storage.Set(TokenKey, "t")
			store, _ := newTestStore(t, storage)
			if store.Restore() != nil || store.Restore() != nil {
				t.Error("expected nil both times")
			}
			if _, ok, _ := storage.Get(UserKey); ok {
				t.Error("expected corrupt entry to be removed")
			}
		})
	}
}

type brokenStorage struct{}

func (brokenStorage) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (brokenStorage) Set(string, string) error         { return errors.New("disk gone") }
func (brokenStorage) Delete(string) error              { return errors.New("disk gone") }

func TestRestore_StorageError(t *testing.T) {
	store, _ := newTestStore(t, brokenStorage{})
	if store.Restore() != nil {
		t.Error("expected nil when storage fails")
	}
	if _, err := store.Login(context.Background(), "admin@cityhealth.test", "secret1"); err == nil || !strings.Contains(err.Error(), "persist session") {
		t.Errorf("expected persist error, got %v", err)
	}
	if store.Authenticated() {
		t.Error("expected store to stay anonymous")
	}
}

// tokenWriteFailure rejects token writes once armed.
type tokenWriteFailure struct {
	*MemoryStorage
	armed bool
}

func (s *tokenWriteFailure) Set(key, value string) error {
	if s.armed && key == TokenKey {
		return errors.New("disk full")
	}
	return s.MemoryStorage.Set(key, value)
}

func TestLogin_PartialPersistNeverMixesUsers(t *testing.T) {
	storage := &tokenWriteFailure{MemoryStorage: NewMemoryStorage()}
	store, _ := newTestStore(t, storage)
	ctx := context.Background()
	if _, err := store.Login(ctx, "admin@cityhealth.test", "secret1"); err != nil {
		t.Fatal(err)
	}

	storage.armed = true
	if _, err := store.RegisterStaffMember(ctx, "CLINIC001", "Nurse Joy", "joy@cityhealth.test", "secret1"); err == nil {
		t.Fatal("expected persist error")
	}
	if id := store.Identity(); id == nil || id.ID != "u-admin" {
		t.Errorf("expected in-memory identity unchanged, got %+v", id)
	}

	restored, _ := newTestStore(t, storage)
	if id := restored.Restore(); id != nil && restored.Token() != "tok-"+id.ID {
		t.Errorf("restored %s with token %q", id.ID, restored.Token())
	}
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStorage(path)

	if _, ok, err := fs.Get(UserKey); ok || err != nil {
		t.Fatalf("expected missing key on missing file, got ok=%v err=%v", ok, err)
	}
	if err := fs.Set(TokenKey, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok, _ := NewFileStorage(path).Get(TokenKey); !ok || v != "abc" {
		t.Errorf("expected value to survive reopen, got %q", v)
	}
	if err := fs.Delete(TokenKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := fs.Get(TokenKey); ok {
		t.Error("expected key deleted")
	}
}
