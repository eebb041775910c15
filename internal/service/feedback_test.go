package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/summary"
)

func newFeedbackFixture(t *testing.T) (*FeedbackService, *RegistrationService, *memStore) {
	t.Helper()
	store := newMemStore()
	regSvc := NewRegistrationService(
		&memEvents{store}, &memRegistrations{store}, nil, &recordingNotifier{},
	)
	fbSvc := NewFeedbackService(
		&memEvents{store}, &memRegistrations{store}, &memFeedback{store}, summary.Static{},
	)
	return fbSvc, regSvc, store
}

// TestFeedbackLifecycle walks the gate end to end: feedback before any
// registration fails NotAttended, after registration but before attendance
// still fails, after attendance succeeds, and a second submission fails
// DuplicateFeedback.
func TestFeedbackLifecycle(t *testing.T) {
	fbSvc, regSvc, store := newFeedbackFixture(t)
	organizer := store.addUser(model.RoleOrganizer)
	participant := store.addUser(model.RoleParticipant)
	event := store.addEvent(organizer.ID, 10, time.Now().Add(-2*time.Hour), 60)

	req := model.FeedbackRequest{Rating: 5, Comment: "great"}
	ctx := context.Background()

	_, err := fbSvc.SubmitFeedback(ctx, participant, event.ID, req)
	assert.ErrorIs(t, err, ErrNotAttended, "no registration yet")

	_, err = regSvc.Register(ctx, participant, event.ID,
		model.RegisterRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = fbSvc.SubmitFeedback(ctx, participant, event.ID, req)
	assert.ErrorIs(t, err, ErrNotAttended, "registered but not attended")

	require.NoError(t, regSvc.MarkAttended(ctx, organizer, event.ID, participant.ID))

	fb, err := fbSvc.SubmitFeedback(ctx, participant, event.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)

	_, err = fbSvc.SubmitFeedback(ctx, participant, event.ID, req)
	assert.ErrorIs(t, err, repository.ErrDuplicateFeedback)
}

func TestFeedbackRatingBounds(t *testing.T) {
	fbSvc, regSvc, store := newFeedbackFixture(t)
	organizer := store.addUser(model.RoleOrganizer)
	participant := store.addUser(model.RoleParticipant)
	event := store.addEvent(organizer.ID, 10, time.Now().Add(-2*time.Hour), 60)

	ctx := context.Background()
	_, err := regSvc.Register(ctx, participant, event.ID,
		model.RegisterRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NoError(t, regSvc.MarkAttended(ctx, organizer, event.ID, participant.ID))

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := fbSvc.SubmitFeedback(ctx, participant, event.ID,
			model.FeedbackRequest{Rating: rating})
		assert.Error(t, err, "rating %d must be rejected", rating)
		assert.NotErrorIs(t, err, ErrNotAttended)
	}
}

func TestFeedbackUnknownEvent(t *testing.T) {
	fbSvc, _, store := newFeedbackFixture(t)
	participant := store.addUser(model.RoleParticipant)

	_, err := fbSvc.SubmitFeedback(context.Background(), participant, "missing",
		model.FeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// Suggestions have neither an attendance precondition nor a uniqueness
// constraint.
func TestSuggestions(t *testing.T) {
	fbSvc, _, store := newFeedbackFixture(t)
	organizer := store.addUser(model.RoleOrganizer)
	participant := store.addUser(model.RoleParticipant)
	event := store.addEvent(organizer.ID, 10, time.Now().Add(time.Hour), 60)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := fbSvc.SubmitSuggestion(ctx, participant, event.ID,
			model.SuggestionRequest{Text: "more coffee"})
		require.NoError(t, err)
	}

	suggestions, err := fbSvc.ListSuggestions(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, suggestions, 3)

	_, err = fbSvc.SubmitSuggestion(ctx, participant, event.ID,
		model.SuggestionRequest{Text: "   "})
	assert.Error(t, err, "blank suggestion rejected")
}

func TestEventSummary(t *testing.T) {
	fbSvc, _, store := newFeedbackFixture(t)
	organizer := store.addUser(model.RoleOrganizer)
	event := store.addEvent(organizer.ID, 10, time.Now().Add(time.Hour), 60)

	text, err := fbSvc.EventSummary(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Contains(t, text, event.Title)

	_, err = fbSvc.EventSummary(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
