package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly/internal/model"
)

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Register performs a concurrency-safe registration inside a transaction.
//
// Two storage-level guards carry the invariants, so no check-then-write
// race can produce a bad state:
//
//  1. SELECT ... FOR UPDATE acquires a row lock on the event, serializing
//     concurrent registrations for the same event so the capacity
//     read-modify-check cannot overbook.
//  2. The UNIQUE (event_id, user_id) index rejects a duplicate insert even
//     if two sessions for the same pair race past the lock on different
//     events of interest; the 23505 violation is translated to
//     ErrAlreadyRegistered.
//
// On success reg is populated with its assigned ID and commit-time
// registration timestamp.
func (r *RegistrationRepository) Register(ctx context.Context, reg *model.Registration) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the event row and read capacity under the lock.
	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT max_participants FROM events WHERE id = $1 FOR UPDATE`,
		reg.EventID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var registered int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`,
		reg.EventID,
	).Scan(&registered)
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if registered >= capacity {
		err = ErrEventFull
		return err
	}

	reg.ID = uuid.New().String()
	reg.RegisteredAt = time.Now().UTC()
	reg.Attended = false

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, event_id, user_id, name, email, attended, registered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reg.ID, reg.EventID, reg.UserID, reg.Name, reg.Email, reg.Attended, reg.RegisteredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrAlreadyRegistered
			return err
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Cancel deletes the registration for (event, user). Cancellation is
// destructive: no row survives, and a second cancel reports
// ErrNotRegistered.
func (r *RegistrationRepository) Cancel(ctx context.Context, eventID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM registrations WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotRegistered
	}
	return nil
}

// GetByEventAndUser returns the registration for (event, user) or
// ErrNotRegistered.
func (r *RegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, user_id, name, email, attended, registered_at
		 FROM registrations
		 WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Name, &reg.Email, &reg.Attended, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}

// MarkAttended flips the attended flag. Re-marking an already attended
// registration is a no-op success; a missing registration reports
// ErrNotRegistered.
func (r *RegistrationRepository) MarkAttended(ctx context.Context, eventID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE registrations SET attended = TRUE
		 WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("mark attended: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotRegistered
	}
	return nil
}

// CountByEvent returns the number of active registrations for an event.
// Uniqueness of (event_id, user_id) makes this equal to the number of
// distinct registered users.
func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

// CountByOrganizer returns the total registrations across all events the
// organizer owns, for the dashboard.
func (r *RegistrationRepository) CountByOrganizer(ctx context.Context, organizerID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM registrations reg
		 JOIN events e ON e.id = reg.event_id
		 WHERE e.organizer_id = $1`,
		organizerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count organizer registrations: %w", err)
	}
	return n, nil
}

// ListByEvent returns all registrations for an event, newest first.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	return r.list(ctx,
		`SELECT id, event_id, user_id, name, email, attended, registered_at
		 FROM registrations
		 WHERE event_id = $1
		 ORDER BY registered_at DESC`,
		eventID,
	)
}

// ListByUser returns all of a user's registrations, newest first.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	return r.list(ctx,
		`SELECT id, event_id, user_id, name, email, attended, registered_at
		 FROM registrations
		 WHERE user_id = $1
		 ORDER BY registered_at DESC`,
		userID,
	)
}

func (r *RegistrationRepository) list(ctx context.Context, query string, args ...any) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Name,
			&reg.Email, &reg.Attended, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
