package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatherly/gatherly/internal/model"
)

// MessageService handles the peripheral direct-message threads.
type MessageService struct {
	messages MessageStore
	users    UserStore
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, users: users}
}

// Send appends a message from sender to the given receiver.
func (s *MessageService) Send(ctx context.Context, sender *model.User, req model.SendMessageRequest) (*model.Message, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	if req.ReceiverID == sender.ID {
		return nil, fmt.Errorf("cannot message yourself")
	}
	if _, err := s.users.GetByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		SenderID:   sender.ID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return msg, nil
}

// Conversation returns the full thread between the caller and another user
// and marks the counterpart's messages as read.
func (s *MessageService) Conversation(ctx context.Context, user *model.User, otherID string) ([]model.Message, error) {
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.Conversation(ctx, user.ID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkRead(ctx, otherID, user.ID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Inbox returns the caller's received messages.
func (s *MessageService) Inbox(ctx context.Context, user *model.User) ([]model.Message, error) {
	return s.messages.Inbox(ctx, user.ID)
}
