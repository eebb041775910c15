package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly/internal/model"
)

// MessageRepository handles the append-only direct-message log.
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends a message, assigning its UUID and send time.
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	m.ID = uuid.New().String()
	m.SentAt = time.Now().UTC()
	m.IsRead = false

	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, content, sent_at, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.SenderID, m.ReceiverID, m.Content, m.SentAt, m.IsRead,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Conversation returns every message exchanged between two users in
// chronological order.
func (r *MessageRepository) Conversation(ctx context.Context, userA, userB string) ([]model.Message, error) {
	return r.list(ctx,
		`SELECT id, sender_id, receiver_id, content, sent_at, is_read
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY sent_at ASC`,
		userA, userB,
	)
}

// Inbox returns the messages a user has received, newest first.
func (r *MessageRepository) Inbox(ctx context.Context, userID string) ([]model.Message, error) {
	return r.list(ctx,
		`SELECT id, sender_id, receiver_id, content, sent_at, is_read
		 FROM messages
		 WHERE receiver_id = $1
		 ORDER BY sent_at DESC`,
		userID,
	)
}

// MarkRead flags every unread message from sender to receiver as read.
func (r *MessageRepository) MarkRead(ctx context.Context, senderID, receiverID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE messages SET is_read = TRUE
		 WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE`,
		senderID, receiverID,
	)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.SentAt, &m.IsRead); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
