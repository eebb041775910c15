package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// memStore is a map-backed in-memory implementation of every store
// interface. It reproduces the storage-level guarantees the services rely
// on: registration and feedback uniqueness are enforced atomically under
// one mutex, and deleting an event cascades to its dependent rows.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*model.User
	categories  map[string]*model.Category
	events      map[string]*model.Event
	regs        map[string]*model.Registration // keyed eventID+"|"+userID
	feedback    map[string]*model.Feedback     // keyed eventID+"|"+userID
	suggestions []*model.Suggestion
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*model.User),
		categories: make(map[string]*model.Category),
		events:     make(map[string]*model.Event),
		regs:       make(map[string]*model.Registration),
		feedback:   make(map[string]*model.Feedback),
	}
}

func pairKey(eventID, userID string) string { return eventID + "|" + userID }

// addUser seeds a user directly, bypassing signup.
func (s *memStore) addUser(role model.Role) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{
		ID:       uuid.New().String(),
		Username: "user-" + uuid.New().String()[:8],
		Email:    uuid.New().String()[:8] + "@example.com",
		Role:     role,
	}
	s.users[u.ID] = u
	return u
}

// addEvent seeds an event directly, bypassing validation.
func (s *memStore) addEvent(organizerID string, capacity int, start time.Time, duration int) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &model.Event{
		ID:              uuid.New().String(),
		Title:           "Test Event",
		OrganizerID:     organizerID,
		MaxParticipants: capacity,
		StartTime:       start,
		DurationMinutes: duration,
	}
	s.events[e.ID] = e
	return e
}

// ─── UserStore ────────────────────────────────────────────────────────────────

func (s *memStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrUserExists
		}
	}
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ─── EventStore ───────────────────────────────────────────────────────────────

type memEvents struct{ *memStore }

func (s *memEvents) Create(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	s.events[e.ID] = e
	return nil
}

func (s *memEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memEvents) List(ctx context.Context, filter repository.EventFilter) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		if !filter.StartsAfter.IsZero() && !e.StartTime.After(filter.StartsAfter) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *memEvents) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *memEvents) Update(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	e.UpdatedAt = time.Now().UTC()
	s.events[e.ID] = e
	return nil
}

// Delete cascades to registrations, feedback and suggestions atomically,
// the way the FK constraints do in Postgres.
func (s *memEvents) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	for key, reg := range s.regs {
		if reg.EventID == id {
			delete(s.regs, key)
		}
	}
	for key, fb := range s.feedback {
		if fb.EventID == id {
			delete(s.feedback, key)
		}
	}
	kept := s.suggestions[:0]
	for _, sug := range s.suggestions {
		if sug.EventID != id {
			kept = append(kept, sug)
		}
	}
	s.suggestions = kept
	return nil
}

// ─── CategoryStore ────────────────────────────────────────────────────────────

type memCategories struct{ *memStore }

func (s *memCategories) Create(ctx context.Context, c *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New().String()
	s.categories[c.ID] = c
	return nil
}

func (s *memCategories) GetByID(ctx context.Context, id string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memCategories) List(ctx context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Category
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memStore) addCategory() *model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Category{ID: uuid.New().String(), Name: "cat-" + uuid.New().String()[:8]}
	s.categories[c.ID] = c
	return c
}

// ─── RegistrationStore ────────────────────────────────────────────────────────

type memRegistrations struct{ *memStore }

// Register mirrors the transactional guard of the real repository: event
// existence, capacity and pair uniqueness are all checked under one lock,
// so concurrent duplicate attempts see exactly one winner.
func (s *memRegistrations) Register(ctx context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[reg.EventID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, dup := s.regs[pairKey(reg.EventID, reg.UserID)]; dup {
		return repository.ErrAlreadyRegistered
	}
	count := 0
	for _, existing := range s.regs {
		if existing.EventID == reg.EventID {
			count++
		}
	}
	if count >= event.MaxParticipants {
		return repository.ErrEventFull
	}
	reg.ID = uuid.New().String()
	reg.RegisteredAt = time.Now().UTC()
	s.regs[pairKey(reg.EventID, reg.UserID)] = reg
	return nil
}

func (s *memRegistrations) Cancel(ctx context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(eventID, userID)
	if _, ok := s.regs[key]; !ok {
		return repository.ErrNotRegistered
	}
	delete(s.regs, key)
	return nil
}

func (s *memRegistrations) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.regs[pairKey(eventID, userID)]; ok {
		return reg, nil
	}
	return nil, repository.ErrNotRegistered
}

func (s *memRegistrations) MarkAttended(ctx context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[pairKey(eventID, userID)]
	if !ok {
		return repository.ErrNotRegistered
	}
	reg.Attended = true
	return nil
}

func (s *memRegistrations) CountByEvent(ctx context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, reg := range s.regs {
		if reg.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *memRegistrations) CountByOrganizer(ctx context.Context, organizerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, reg := range s.regs {
		if e, ok := s.events[reg.EventID]; ok && e.OrganizerID == organizerID {
			count++
		}
	}
	return count, nil
}

func (s *memRegistrations) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, reg := range s.regs {
		if reg.EventID == eventID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (s *memRegistrations) ListByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, reg := range s.regs {
		if reg.UserID == userID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

// ─── FeedbackStore ────────────────────────────────────────────────────────────

type memFeedback struct{ *memStore }

func (s *memFeedback) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(fb.EventID, fb.UserID)
	if _, dup := s.feedback[key]; dup {
		return repository.ErrDuplicateFeedback
	}
	fb.ID = uuid.New().String()
	fb.CreatedAt = time.Now().UTC()
	s.feedback[key] = fb
	return nil
}

func (s *memFeedback) ListFeedbackByEvent(ctx context.Context, eventID string) ([]model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Feedback
	for _, fb := range s.feedback {
		if fb.EventID == eventID {
			out = append(out, *fb)
		}
	}
	return out, nil
}

func (s *memFeedback) CreateSuggestion(ctx context.Context, sug *model.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sug.ID = uuid.New().String()
	sug.CreatedAt = time.Now().UTC()
	s.suggestions = append(s.suggestions, sug)
	return nil
}

func (s *memFeedback) ListSuggestionsByEvent(ctx context.Context, eventID string) ([]model.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Suggestion
	for _, sug := range s.suggestions {
		if sug.EventID == eventID {
			out = append(out, *sug)
		}
	}
	return out, nil
}

// ─── Notifier ─────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu    sync.Mutex
	sends []string // recipient addresses, in enqueue order
}

func (n *recordingNotifier) Enqueue(to, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, to)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sends)
}
