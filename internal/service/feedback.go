package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/summary"
)

// FeedbackService gates feedback on confirmed attendance and handles
// suggestions, which carry no precondition.
type FeedbackService struct {
	events        EventStore
	registrations RegistrationStore
	feedback      FeedbackStore
	summaries     summary.Generator
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(
	events EventStore,
	registrations RegistrationStore,
	feedback FeedbackStore,
	summaries summary.Generator,
) *FeedbackService {
	return &FeedbackService{
		events:        events,
		registrations: registrations,
		feedback:      feedback,
		summaries:     summaries,
	}
}

// SubmitFeedback records a rating for an attended event.
//
// Preconditions, checked in order: the event exists, the rating is an
// integer 1 through 5, the caller holds a registration with attended set,
// and no prior feedback exists for the pair. The last is enforced by the
// storage uniqueness constraint, so a concurrent double submit loses
// cleanly with ErrDuplicateFeedback.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, user *model.User, eventID string, req model.FeedbackRequest) (*model.Feedback, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	reg, err := s.registrations.GetByEventAndUser(ctx, eventID, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotRegistered) {
			return nil, ErrNotAttended
		}
		return nil, fmt.Errorf("check attendance: %w", err)
	}
	if !reg.Attended {
		return nil, ErrNotAttended
	}

	fb := &model.Feedback{
		EventID: eventID,
		UserID:  user.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.feedback.CreateFeedback(ctx, fb); err != nil {
		if errors.Is(err, repository.ErrDuplicateFeedback) {
			return nil, err
		}
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

// SubmitSuggestion records a suggestion. Any authenticated user may
// suggest, any number of times.
func (s *FeedbackService) SubmitSuggestion(ctx context.Context, user *model.User, eventID string, req model.SuggestionRequest) (*model.Suggestion, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return nil, fmt.Errorf("suggestion text is required")
	}

	suggestion := &model.Suggestion{
		EventID: eventID,
		UserID:  user.ID,
		Text:    req.Text,
	}
	if err := s.feedback.CreateSuggestion(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	return suggestion, nil
}

// ListFeedback returns all feedback for an existing event.
func (s *FeedbackService) ListFeedback(ctx context.Context, eventID string) ([]model.Feedback, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.feedback.ListFeedbackByEvent(ctx, eventID)
}

// ListSuggestions returns all suggestions for an existing event.
func (s *FeedbackService) ListSuggestions(ctx context.Context, eventID string) ([]model.Suggestion, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.feedback.ListSuggestionsByEvent(ctx, eventID)
}

// EventSummary asks the external text service for a short summary of an
// event's feedback.
func (s *FeedbackService) EventSummary(ctx context.Context, eventID string) (string, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	feedback, err := s.feedback.ListFeedbackByEvent(ctx, eventID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(event.Title)
	b.WriteByte('\n')
	for _, fb := range feedback {
		if fb.Comment != "" {
			b.WriteString(fb.Comment)
			b.WriteByte('\n')
		}
	}
	text, err := s.summaries.Summarize(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("summarize feedback: %w", err)
	}
	return text, nil
}
