// Package repository implements all database queries for the event
// management system. It uses pgx directly (no ORM) for transparency and
// performance.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is fully booked")

// ErrAlreadyRegistered is returned when the same user registers twice for
// one event.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrNotRegistered is returned when cancelling or marking attendance for a
// registration that does not exist.
var ErrNotRegistered = errors.New("not registered for this event")

// ErrDuplicateFeedback is returned when a user submits feedback twice for
// one event.
var ErrDuplicateFeedback = errors.New("feedback already submitted for this event")

// ErrUserExists is returned when a signup collides with an existing
// username or email.
var ErrUserExists = errors.New("username or email already taken")

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. The unique indexes on registrations, feedback and users turn
// concurrent duplicate inserts into this error, which callers translate
// into the matching domain error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
