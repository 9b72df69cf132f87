package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const conversationColumns = `id, customer_name, customer_phone, customer_email, customer_company, platform, status,
	last_message_content, last_message_at, unread_count, rating, feedback, started_at, ended_at, email_sent,
	created_at, updated_at`

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	c := &models.Conversation{}
	err := row.Scan(
		&c.ID,
		&c.CustomerName,
		&c.CustomerPhone,
		&c.CustomerEmail,
		&c.CustomerCompany,
		&c.Platform,
		&c.Status,
		&c.LastMessageContent,
		&c.LastMessageAt,
		&c.UnreadCount,
		&c.Rating,
		&c.Feedback,
		&c.StartedAt,
		&c.EndedAt,
		&c.EmailSent,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}
	return c, nil
}

const messageColumns = `id, conversation_id, sender_type, sender_name, content, message_type, created_at`

func scanMessage(row pgx.Row) (*models.Message, error) {
	m := &models.Message{}
	err := row.Scan(
		&m.ID,
		&m.ConversationID,
		&m.SenderType,
		&m.SenderName,
		&m.Content,
		&m.MessageType,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning message: %w", err)
	}
	return m, nil
}

const insertConversation = `-- name: BootstrapConversation :one
INSERT INTO chat_conversations (
    id, customer_name, customer_phone, customer_email, customer_company, platform, status,
    last_message_content, last_message_at, unread_count, started_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, NOW(), 0, NOW()
)
RETURNING ` + conversationColumns + `;
`

const insertMessage = `-- name: InsertMessage :one
INSERT INTO chat_messages (id, conversation_id, sender_type, sender_name, content, message_type)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + messageColumns + `;
`

const insertLead = `-- name: InsertLead :one
INSERT INTO leads (id, name, phone, email, company, source, status, owner)
VALUES ($1, $2, $3, $4, $5, $6, 'new', $7)
RETURNING id, name, phone, email, company, source, status, owner, notes, created_at, updated_at;
`

// BootstrapConversation creates the conversation row, its System welcome
// message and the CRM lead copy in one transaction. Either every row lands
// or none does.
func (s *PostgresStore) BootstrapConversation(ctx context.Context, arg store.BootstrapConversationParams) (*models.Conversation, *models.Message, *models.Lead, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error beginning bootstrap transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after a successful commit

	conv, err := scanConversation(tx.QueryRow(ctx, insertConversation,
		arg.ConversationID,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.CustomerEmail,
		arg.CustomerCompany,
		arg.Platform,
		models.StatusUnassigned,
		arg.WelcomeContent,
	))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bootstrap: conversation insert: %w", err)
	}

	welcome, err := scanMessage(tx.QueryRow(ctx, insertMessage,
		arg.WelcomeID,
		arg.ConversationID,
		models.SenderAgent,
		models.SystemSenderName,
		arg.WelcomeContent,
		models.MessageTypeText,
	))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bootstrap: welcome message insert: %w", err)
	}

	lead := &models.Lead{}
	err = tx.QueryRow(ctx, insertLead,
		arg.LeadID,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.CustomerEmail,
		arg.CustomerCompany,
		arg.LeadSource,
		arg.LeadOwner,
	).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Company,
		&lead.Source,
		&lead.Status,
		&lead.Owner,
		&lead.Notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bootstrap: lead insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("error committing bootstrap transaction: %w", err)
	}
	return conv, welcome, lead, nil
}

const updateSnapshot = `-- name: UpdateSnapshot :exec
UPDATE chat_conversations
SET last_message_content = $2, last_message_at = $3, unread_count = $4, status = $5, updated_at = NOW()
WHERE id = $1 AND status <> 'closed';
`

// AppendMessage inserts one message and applies the conversation snapshot
// (last-message content/time, unread counter, status) in one transaction.
// The snapshot update refuses closed conversations, so a send racing a
// close rolls back with ErrConversationClosed instead of reopening the row.
func (s *PostgresStore) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (*models.Message, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning append transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	msg, err := scanMessage(tx.QueryRow(ctx, insertMessage,
		arg.MessageID,
		arg.ConversationID,
		arg.SenderType,
		arg.SenderName,
		arg.Content,
		models.MessageTypeText,
	))
	if err != nil {
		return nil, fmt.Errorf("append: message insert: %w", err)
	}

	tag, err := tx.Exec(ctx, updateSnapshot,
		arg.ConversationID,
		arg.Content,
		msg.CreatedAt,
		arg.UnreadCount,
		arg.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("append: snapshot update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var status models.ConversationStatus
		err := tx.QueryRow(ctx, `SELECT status FROM chat_conversations WHERE id = $1`, arg.ConversationID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("append: conversation status check: %w", err)
		}
		return nil, store.ErrConversationClosed
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing append transaction: %w", err)
	}
	return msg, nil
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT ` + conversationColumns + `
FROM chat_conversations
WHERE id = $1;
`

func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	return scanConversation(s.db.QueryRow(ctx, getConversationByID, id))
}

func (s *PostgresStore) ListConversations(ctx context.Context, arg store.ListConversationsParams) ([]models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM chat_conversations`
	args := []interface{}{}
	if arg.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *arg.Status)
	}
	query += fmt.Sprintf(` ORDER BY last_message_at DESC NULLS LAST LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, arg.Limit, arg.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var items []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(
			&c.ID,
			&c.CustomerName,
			&c.CustomerPhone,
			&c.CustomerEmail,
			&c.CustomerCompany,
			&c.Platform,
			&c.Status,
			&c.LastMessageContent,
			&c.LastMessageAt,
			&c.UnreadCount,
			&c.Rating,
			&c.Feedback,
			&c.StartedAt,
			&c.EndedAt,
			&c.EmailSent,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}
	return items, nil
}

const listMessages = `-- name: ListMessages :many
SELECT ` + messageColumns + `
FROM chat_messages
WHERE conversation_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listMessages, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(
			&m.ID,
			&m.ConversationID,
			&m.SenderType,
			&m.SenderName,
			&m.Content,
			&m.MessageType,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return items, nil
}

const updateConversationStatus = `-- name: UpdateConversationStatus :exec
UPDATE chat_conversations
SET status = $2, ended_at = COALESCE($3, ended_at), updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateConversationStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus, endedAt *time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("invalid conversation status: %s", status)
	}
	tag, err := s.db.Exec(ctx, updateConversationStatus, id, status, endedAt)
	if err != nil {
		return fmt.Errorf("failed to update conversation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const updateConversationFeedback = `-- name: UpdateConversationFeedback :exec
UPDATE chat_conversations
SET rating = $2, feedback = $3, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateConversationFeedback(ctx context.Context, id uuid.UUID, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("invalid rating value: %d, must be between 1 and 5", rating)
	}
	tag, err := s.db.Exec(ctx, updateConversationFeedback, id, rating, feedback)
	if err != nil {
		return fmt.Errorf("failed to update conversation feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const markTranscriptSent = `-- name: MarkTranscriptSent :exec
UPDATE chat_conversations
SET email_sent = TRUE, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) MarkTranscriptSent(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, markTranscriptSent, id)
	if err != nil {
		return fmt.Errorf("failed to mark transcript sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const resetUnreadCount = `-- name: ResetUnreadCount :exec
UPDATE chat_conversations
SET unread_count = 0, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) ResetUnreadCount(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, resetUnreadCount, id)
	if err != nil {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation and, via ON DELETE CASCADE, its
// messages. Only the admin console calls this; the chat flow never does.
func (s *PostgresStore) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM chat_conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
