package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `id, conversation_id, sender_role, sender_id, body, system,
	created_at, read_at, deleted_by_couple, deleted_by_vendor`

func scanMessage(row interface{ Scan(...any) error }) (*domain.Message, error) {
	m := &domain.Message{}
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderRole, &m.SenderID, &m.Body, &m.System,
		&m.CreatedAt, &m.ReadAt, &m.DeletedByCouple, &m.DeletedByVendor,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts the message and, in the same transaction, stamps the
// conversation's last_message_at and bumps the counterpart's unread counter
// as an atomic delta.
func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO messages (conversation_id, sender_role, sender_id, body, system, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`, m.ConversationID, m.SenderRole, m.SenderID, m.Body, m.System).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	counterpart := m.SenderRole.Counterpart()
	if _, err := tx.ExecContext(ctx, `
		UPDATE conversations
		SET last_message_at = $2, `+unreadColumn(counterpart)+` = `+unreadColumn(counterpart)+` + 1
		WHERE id = $1
	`, m.ConversationID, m.CreatedAt); err != nil {
		return fmt.Errorf("bump conversation: %w", err)
	}

	return tx.Commit()
}

func (r *MessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

func (r *MessageRepo) ListVisible(ctx context.Context, conversationID int64, reader domain.Role) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1 AND `+deletedColumn(reader)+` = FALSE
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// MarkThreadRead stamps read_at on the counterpart's unread messages and
// zeroes the reader's counter in one transaction. read_at is only ever set
// where it is still NULL, so it is written at most once per message.
func (r *MessageRepo) MarkThreadRead(ctx context.Context, conversationID int64, reader domain.Role, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE messages SET read_at = $3
		WHERE conversation_id = $1 AND sender_role = $2 AND read_at IS NULL
	`, conversationID, reader.Counterpart(), at); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE conversations SET `+unreadColumn(reader)+` = 0 WHERE id = $1
	`, conversationID); err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}

	return tx.Commit()
}

func (r *MessageRepo) SoftDelete(ctx context.Context, messageID int64, role domain.Role) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE messages SET `+deletedColumn(role)+` = TRUE WHERE id = $1
	`, messageID); err != nil {
		return fmt.Errorf("soft delete message: %w", err)
	}
	return nil
}

func (r *MessageRepo) LastVisible(ctx context.Context, conversationID int64, reader domain.Role) (*domain.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1 AND `+deletedColumn(reader)+` = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, conversationID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last visible message: %w", err)
	}
	return m, nil
}

func (r *MessageRepo) LastBySender(ctx context.Context, conversationID int64, sender domain.Role) (*domain.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1 AND sender_role = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, conversationID, sender))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last message by sender: %w", err)
	}
	return m, nil
}
