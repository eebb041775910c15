// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// ErrPermissionDenied is returned when a user acts on a resource they do
// not own or lacks the role for.
var ErrPermissionDenied = errors.New("permission denied")

// ErrNotAttended is returned when feedback is submitted without a
// confirmed attendance.
var ErrNotAttended = errors.New("feedback requires attendance")

// EventStore is the persistence surface the services need for events.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, filter repository.EventFilter) ([]model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
}

// CategoryStore is the persistence surface for categories.
type CategoryStore interface {
	Create(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}

// RegistrationStore is the persistence surface for the registration ledger.
type RegistrationStore interface {
	Register(ctx context.Context, reg *model.Registration) error
	Cancel(ctx context.Context, eventID, userID string) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.Registration, error)
	MarkAttended(ctx context.Context, eventID, userID string) error
	CountByEvent(ctx context.Context, eventID string) (int, error)
	CountByOrganizer(ctx context.Context, organizerID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]model.Registration, error)
}

// FeedbackStore is the persistence surface for feedback and suggestions.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	ListFeedbackByEvent(ctx context.Context, eventID string) ([]model.Feedback, error)
	CreateSuggestion(ctx context.Context, s *model.Suggestion) error
	ListSuggestionsByEvent(ctx context.Context, eventID string) ([]model.Suggestion, error)
}

// UserStore is the persistence surface for accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// MessageStore is the persistence surface for direct messages.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	Conversation(ctx context.Context, userA, userB string) ([]model.Message, error)
	Inbox(ctx context.Context, userID string) ([]model.Message, error)
	MarkRead(ctx context.Context, senderID, receiverID string) error
}

// Notifier enqueues a fire-and-forget notification.
type Notifier interface {
	Enqueue(to, subject, body string)
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
