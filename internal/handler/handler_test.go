package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/service"
)

// fakeStore is a minimal in-memory backing for the handler tests. It
// implements the user, event and registration store interfaces with the
// same uniqueness and capacity guarantees as the real repositories.
type fakeStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	events map[string]*model.Event
	regs   map[string]*model.Registration // eventID+"|"+userID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*model.User),
		events: make(map[string]*model.Event),
		regs:   make(map[string]*model.Registration),
	}
}

// UserStore

func (s *fakeStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrUserExists
		}
	}
	u.ID = uuid.New().String()
	s.users[u.ID] = u
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// EventStore (reads only; handler tests seed events directly)

type fakeEvents struct{ *fakeStore }

func (s *fakeEvents) Create(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.New().String()
	s.events[e.ID] = e
	return nil
}

func (s *fakeEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeEvents) List(ctx context.Context, _ repository.EventFilter) ([]model.Event, error) {
	return nil, nil
}

func (s *fakeEvents) ListByOrganizer(ctx context.Context, _ string) ([]model.Event, error) {
	return nil, nil
}

func (s *fakeEvents) Update(ctx context.Context, _ *model.Event) error { return nil }
func (s *fakeEvents) Delete(ctx context.Context, _ string) error       { return nil }

// RegistrationStore

type fakeRegs struct{ *fakeStore }

func (s *fakeRegs) Register(ctx context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[reg.EventID]
	if !ok {
		return repository.ErrNotFound
	}
	key := reg.EventID + "|" + reg.UserID
	if _, dup := s.regs[key]; dup {
		return repository.ErrAlreadyRegistered
	}
	count := 0
	for _, r := range s.regs {
		if r.EventID == reg.EventID {
			count++
		}
	}
	if count >= event.MaxParticipants {
		return repository.ErrEventFull
	}
	reg.ID = uuid.New().String()
	s.regs[key] = reg
	return nil
}

func (s *fakeRegs) Cancel(ctx context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := eventID + "|" + userID
	if _, ok := s.regs[key]; !ok {
		return repository.ErrNotRegistered
	}
	delete(s.regs, key)
	return nil
}

func (s *fakeRegs) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.regs[eventID+"|"+userID]; ok {
		return r, nil
	}
	return nil, repository.ErrNotRegistered
}

func (s *fakeRegs) MarkAttended(ctx context.Context, eventID, userID string) error {
	return nil
}

func (s *fakeRegs) CountByEvent(ctx context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.regs {
		if r.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *fakeRegs) CountByOrganizer(ctx context.Context, _ string) (int, error) { return 0, nil }

func (s *fakeRegs) ListByEvent(ctx context.Context, _ string) ([]model.Registration, error) {
	return nil, nil
}

func (s *fakeRegs) ListByUser(ctx context.Context, _ string) ([]model.Registration, error) {
	return nil, nil
}

type noopNotifier struct{}

func (noopNotifier) Enqueue(_, _, _ string) {}

// newTestServer wires a minimal router with real auth middleware over the
// fake stores and returns it with a seeded participant token and event ID.
func newTestServer(t *testing.T) (*httptest.Server, string, string) {
	t.Helper()
	store := newFakeStore()

	auth := service.NewAuthService(store, "test-secret", time.Hour)
	regSvc := service.NewRegistrationService(&fakeEvents{store}, &fakeRegs{store}, nil, noopNotifier{})

	regHandler := NewRegistrationHandler(regSvc)
	authHandler := NewAuthHandler(auth)

	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(auth))
		r.Post("/events/{id}/register", regHandler.Register)
		r.Delete("/events/{id}/register", regHandler.Cancel)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Seed a participant and an event with capacity 1.
	ctx := context.Background()
	_, err := auth.Signup(ctx, model.SignupRequest{
		Username: "ada", Email: "ada@example.com",
		Password: "correct horse", Role: model.RoleParticipant,
	})
	require.NoError(t, err)
	token, _, err := auth.Login(ctx, model.LoginRequest{
		Email: "ada@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	event := &model.Event{Title: "Test", MaxParticipants: 1, StartTime: time.Now().Add(time.Hour)}
	require.NoError(t, (&fakeEvents{store}).Create(ctx, event))

	return srv, token, event.ID
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterEndpointStatusMapping(t *testing.T) {
	srv, token, eventID := newTestServer(t)
	url := fmt.Sprintf("%s/events/%s/register", srv.URL, eventID)
	body := model.RegisterRequest{Name: "Ada", Email: "ada@example.com"}

	// Unauthenticated.
	resp := doJSON(t, http.MethodPost, url, "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// First registration wins.
	resp = doJSON(t, http.MethodPost, url, token, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate maps to 409 with a specific message.
	resp = doJSON(t, http.MethodPost, url, token, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Error, "already registered")

	// Unknown event maps to 404.
	resp = doJSON(t, http.MethodPost, srv.URL+"/events/missing/register", token, body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Validation failure maps to 400.
	resp = doJSON(t, http.MethodPost, url, token, model.RegisterRequest{Name: "", Email: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCancelEndpointStatusMapping(t *testing.T) {
	srv, token, eventID := newTestServer(t)
	registerURL := fmt.Sprintf("%s/events/%s/register", srv.URL, eventID)

	resp := doJSON(t, http.MethodPost, registerURL, token,
		model.RegisterRequest{Name: "Ada", Email: "ada@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, registerURL, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Second cancel is a reported conflict, not a crash.
	resp = doJSON(t, http.MethodDelete, registerURL, token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
