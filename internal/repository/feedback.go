package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly/internal/model"
)

// FeedbackRepository handles persistence for feedback and suggestions.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateFeedback inserts a feedback row. The UNIQUE (event_id, user_id)
// index rejects a second submission for the same pair; the violation is
// translated to ErrDuplicateFeedback.
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	fb.ID = uuid.New().String()
	fb.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback (id, event_id, user_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.EventID, fb.UserID, fb.Rating, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFeedback
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListFeedbackByEvent returns all feedback for an event, newest first.
func (r *FeedbackRepository) ListFeedbackByEvent(ctx context.Context, eventID string) ([]model.Feedback, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, user_id, rating, comment, created_at
		 FROM feedback
		 WHERE event_id = $1
		 ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []model.Feedback
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(&fb.ID, &fb.EventID, &fb.UserID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}

// CreateSuggestion appends a suggestion. Suggestions carry no uniqueness
// constraint.
func (r *FeedbackRepository) CreateSuggestion(ctx context.Context, s *model.Suggestion) error {
	s.ID = uuid.New().String()
	s.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO suggestions (id, event_id, user_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.EventID, s.UserID, s.Text, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	return nil
}

// ListSuggestionsByEvent returns all suggestions for an event, newest first.
func (r *FeedbackRepository) ListSuggestionsByEvent(ctx context.Context, eventID string) ([]model.Suggestion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, user_id, text, created_at
		 FROM suggestions
		 WHERE event_id = $1
		 ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []model.Suggestion
	for rows.Next() {
		var s model.Suggestion
		if err := rows.Scan(&s.ID, &s.EventID, &s.UserID, &s.Text, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}
