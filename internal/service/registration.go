package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// RegistrationService is the registration ledger: it enforces at-most-one
// active registration per (event, user), capacity, destructive cancel, and
// organizer-confirmed attendance. The confirmation mail is enqueued after
// the commit and its fate never affects the registration outcome.
type RegistrationService struct {
	events        EventStore
	registrations RegistrationStore
	counts        *repository.CountCache
	notifier      Notifier
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	events EventStore,
	registrations RegistrationStore,
	counts *repository.CountCache,
	notifier Notifier,
) *RegistrationService {
	return &RegistrationService{
		events:        events,
		registrations: registrations,
		counts:        counts,
		notifier:      notifier,
	}
}

// Register validates the request and delegates the concurrency-safe insert
// to the repository. On success the participant gets a confirmation mail
// enqueued for background delivery.
func (s *RegistrationService) Register(ctx context.Context, user *model.User, eventID string, req model.RegisterRequest) (*model.Registration, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("email is not a valid email address")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	reg := &model.Registration{
		EventID: eventID,
		UserID:  user.ID,
		Name:    req.Name,
		Email:   req.Email,
	}
	if err := s.registrations.Register(ctx, reg); err != nil {
		// Surface domain errors directly so handlers can set correct
		// HTTP status.
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrEventFull) ||
			errors.Is(err, repository.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("register for event: %w", err)
	}

	s.counts.Invalidate(ctx, eventID)
	s.notifier.Enqueue(reg.Email,
		fmt.Sprintf("Registration confirmation for %s", event.Title),
		confirmationBody(reg.Name, event),
	)
	return reg, nil
}

func confirmationBody(name string, event *model.Event) string {
	return fmt.Sprintf(
		"Hi %s,\n\nThank you for registering for %s!\n\nDate: %s\nLocation: %s\n\nWe look forward to seeing you!",
		name,
		event.Title,
		event.StartTime.UTC().Format("Monday, 2 January 2006 at 15:04 MST"),
		event.Location,
	)
}

// Cancel deletes the caller's registration. A second cancel for the same
// pair reports ErrNotRegistered; state is identical either way.
func (s *RegistrationService) Cancel(ctx context.Context, user *model.User, eventID string) error {
	if err := s.registrations.Cancel(ctx, eventID, user.ID); err != nil {
		return err
	}
	s.counts.Invalidate(ctx, eventID)
	return nil
}

// MarkAttended confirms a participant's attendance. Only the event's
// owning organizer may mark; re-marking is a no-op success.
func (s *RegistrationService) MarkAttended(ctx context.Context, actor *model.User, eventID, userID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !actor.IsOrganizer() || event.OrganizerID != actor.ID {
		return ErrPermissionDenied
	}
	return s.registrations.MarkAttended(ctx, eventID, userID)
}

// RegisteredCount returns the number of active registrations for an
// existing event.
func (s *RegistrationService) RegisteredCount(ctx context.Context, eventID string) (int, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return 0, err
	}
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

// ListByEvent gives the owning organizer read-only visibility into an
// event's registrations.
func (s *RegistrationService) ListByEvent(ctx context.Context, actor *model.User, eventID string) ([]model.Registration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOrganizer() || event.OrganizerID != actor.ID {
		return nil, ErrPermissionDenied
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

// ListByUser returns the caller's own registrations for their profile.
func (s *RegistrationService) ListByUser(ctx context.Context, user *model.User) ([]model.Registration, error) {
	return s.registrations.ListByUser(ctx, user.ID)
}
