package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// defaultDurationMinutes applies when an event is created without an
// explicit duration.
const defaultDurationMinutes = 60

// EventService orchestrates catalog lifecycle operations. All mutations
// are organizer-only and additionally owner-gated for existing events.
type EventService struct {
	events        EventStore
	categories    CategoryStore
	registrations RegistrationStore
	counts        *repository.CountCache
}

// NewEventService constructs an EventService.
func NewEventService(
	events EventStore,
	categories CategoryStore,
	registrations RegistrationStore,
	counts *repository.CountCache,
) *EventService {
	return &EventService{
		events:        events,
		categories:    categories,
		registrations: registrations,
		counts:        counts,
	}
}

func (s *EventService) validate(ctx context.Context, req *model.CreateEventRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if req.MaxParticipants <= 0 {
		return fmt.Errorf("max_participants must be a positive integer")
	}
	if req.MaxParticipants > 100_000 {
		return fmt.Errorf("max_participants cannot exceed 100,000")
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	if req.DurationMinutes < 0 {
		return fmt.Errorf("duration_minutes cannot be negative")
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = defaultDurationMinutes
	}
	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("category does not exist")
		}
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

// CreateEvent publishes a new event owned by the acting organizer.
func (s *EventService) CreateEvent(ctx context.Context, actor *model.User, req model.CreateEventRequest) (*model.Event, error) {
	if !actor.IsOrganizer() {
		return nil, ErrPermissionDenied
	}
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:           req.Title,
		Description:     req.Description,
		OrganizerID:     actor.ID,
		CategoryID:      req.CategoryID,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// loadOwned fetches an event and verifies the actor owns it.
func (s *EventService) loadOwned(ctx context.Context, actor *model.User, eventID string) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOrganizer() || event.OrganizerID != actor.ID {
		return nil, ErrPermissionDenied
	}
	return event, nil
}

// UpdateEvent rewrites an event's fields. Only the owning organizer may
// update.
func (s *EventService) UpdateEvent(ctx context.Context, actor *model.User, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.CategoryID = req.CategoryID
	event.Location = req.Location
	event.MaxParticipants = req.MaxParticipants
	event.StartTime = req.StartTime.UTC()
	event.DurationMinutes = req.DurationMinutes

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event and, through the storage cascade, every
// registration, feedback and suggestion that references it. Only the
// owning organizer may delete.
func (s *EventService) DeleteEvent(ctx context.Context, actor *model.User, eventID string) error {
	if _, err := s.loadOwned(ctx, actor, eventID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}
	s.counts.Invalidate(ctx, eventID)
	return nil
}

// GetEvent returns a single event with derived status and registration
// count.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.EventView, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	count, err := s.registeredCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	view := s.view(*event, count)
	return &view, nil
}

// ListEvents returns events matching the filter, each with derived status
// and count.
func (s *EventService) ListEvents(ctx context.Context, filter repository.EventFilter) ([]model.EventView, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, events)
}

// CreateCategory adds a category. Organizer-only.
func (s *EventService) CreateCategory(ctx context.Context, actor *model.User, req model.CreateCategoryRequest) (*model.Category, error) {
	if !actor.IsOrganizer() {
		return nil, ErrPermissionDenied
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *EventService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// Dashboard aggregates an organizer's events: derived status counts and
// total registrations across everything they own.
func (s *EventService) Dashboard(ctx context.Context, actor *model.User) (*model.DashboardStats, error) {
	if !actor.IsOrganizer() {
		return nil, ErrPermissionDenied
	}
	events, err := s.events.ListByOrganizer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, events)
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{Events: views}
	now := time.Now()
	for i := range events {
		switch events[i].Status(now) {
		case model.StatusUpcoming:
			stats.UpcomingCount++
		case model.StatusCompleted:
			stats.CompletedCount++
		}
	}
	total, err := s.registrations.CountByOrganizer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	stats.TotalRegistrations = total
	return stats, nil
}

// registeredCount serves the count through the cache when available.
func (s *EventService) registeredCount(ctx context.Context, eventID string) (int, error) {
	if n, ok := s.counts.Get(ctx, eventID); ok {
		return n, nil
	}
	n, err := s.registrations.CountByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	s.counts.Set(ctx, eventID, n)
	return n, nil
}

func (s *EventService) view(e model.Event, count int) model.EventView {
	return model.EventView{
		Event:           e,
		Status:          e.Status(time.Now()),
		RegisteredCount: count,
	}
}

func (s *EventService) views(ctx context.Context, events []model.Event) ([]model.EventView, error) {
	views := make([]model.EventView, 0, len(events))
	for _, e := range events {
		count, err := s.registeredCount(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, s.view(e, count))
	}
	return views, nil
}
