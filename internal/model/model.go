// Package model defines the core domain types for the event management system.
package model

import "time"

// Role distinguishes organizers from participants. It is assigned at signup
// and immutable afterwards.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleParticipant
}

// User is an authenticated account, either an organizer or a participant.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsOrganizer reports whether the user may create and manage events.
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

// Category groups events by topic.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Status is the derived lifecycle state of an event. It is never persisted;
// it is recomputed from the event's temporal window on every read so that
// concurrent readers always agree without synchronization.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// Event is a scheduled occurrence published by an organizer.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OrganizerID     string    `json:"organizer_id"`
	CategoryID      string    `json:"category_id"`
	Location        string    `json:"location"`
	MaxParticipants int       `json:"max_participants"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Status derives the lifecycle state of the event at the given instant.
//
// Both instants are normalized to UTC before comparison. The ongoing window
// is inclusive at both ends: now == start and now == end both report
// ongoing. A non-positive duration is clamped to zero, collapsing the
// window to the single instant start.
func (e *Event) Status(now time.Time) Status {
	start := e.StartTime.UTC()
	end := e.End()
	now = now.UTC()

	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.After(end):
		return StatusCompleted
	default:
		return StatusOngoing
	}
}

// End returns the instant the event's window closes.
func (e *Event) End() time.Time {
	minutes := e.DurationMinutes
	if minutes < 0 {
		minutes = 0
	}
	return e.StartTime.UTC().Add(time.Duration(minutes) * time.Minute)
}

// Registration binds one participant to one event. At most one registration
// exists per (event, user) pair at any time; cancellation deletes the row.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Attended     bool      `json:"attended"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Feedback is a participant's rating of an attended event. At most one
// feedback row exists per (event, user) pair.
type Feedback struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Suggestion is free-form participant input on an event. Unlike feedback it
// carries no uniqueness or attendance constraint.
type Suggestion struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one entry in the append-only direct-message log between two
// users.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
	IsRead     bool      `json:"is_read"`
}

// EventView is an event decorated with its derived status and current
// registration count, as returned by read endpoints.
type EventView struct {
	Event
	Status          Status `json:"status"`
	RegisteredCount int    `json:"registered_count"`
}

// DashboardStats summarises an organizer's events for the dashboard page.
type DashboardStats struct {
	Events             []EventView `json:"events"`
	UpcomingCount      int         `json:"upcoming_count"`
	CompletedCount     int         `json:"completed_count"`
	TotalRegistrations int         `json:"total_registrations"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
