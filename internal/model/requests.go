package model

import "time"

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a signed session token back to the client.
type TokenResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateEventRequest is the payload for publishing a new event.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CategoryID      string    `json:"category_id"`
	Location        string    `json:"location"`
	MaxParticipants int       `json:"max_participants"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// UpdateEventRequest mirrors CreateEventRequest for event edits.
type UpdateEventRequest = CreateEventRequest

// CreateCategoryRequest is the payload for adding a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RegisterRequest carries the contact details supplied when registering
// for an event.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FeedbackRequest is the payload for rating an attended event.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SuggestionRequest is the payload for suggesting improvements to an event.
type SuggestionRequest struct {
	Text string `json:"text"`
}

// SendMessageRequest is the payload for a direct message.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}
