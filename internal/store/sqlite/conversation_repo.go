package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

const conversationColumns = `id, couple_id, vendor_id, origin_inquiry_id, origin_catalog_item_id,
	status, last_message_at, couple_unread_count, vendor_unread_count,
	deleted_by_couple, deleted_by_vendor, couple_deleted_at, vendor_deleted_at, created_at`

func scanConversation(row interface{ Scan(...any) error }) (*domain.Conversation, error) {
	c := &domain.Conversation{}
	err := row.Scan(
		&c.ID, &c.CoupleID, &c.VendorID, &c.OriginInquiryID, &c.OriginCatalogItemID,
		&c.Status, &c.LastMessageAt, &c.CoupleUnreadCount, &c.VendorUnreadCount,
		&c.DeletedByCouple, &c.DeletedByVendor, &c.CoupleDeletedAt, &c.VendorDeletedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindOrCreate relies on the (couple_id, vendor_id) unique constraint:
// INSERT OR IGNORE plus a re-read makes it idempotent under concurrent
// first-contact sends for the same pair.
func (r *ConversationRepo) FindOrCreate(ctx context.Context, coupleID, vendorID int64, originInquiryID *int64) (*domain.Conversation, error) {
	conv, err := r.findByPair(ctx, coupleID, vendorID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO conversations (couple_id, vendor_id, origin_inquiry_id, status, last_message_at, created_at)
		VALUES (?, ?, ?, 'active', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, coupleID, vendorID, originInquiryID); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	conv, err = r.findByPair(ctx, coupleID, vendorID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation vanished after insert for pair (%d, %d)", coupleID, vendorID)
	}
	return conv, nil
}

func (r *ConversationRepo) findByPair(ctx context.Context, coupleID, vendorID int64) (*domain.Conversation, error) {
	conv, err := scanConversation(r.db.QueryRowContext(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations WHERE couple_id = ? AND vendor_id = ?
	`, coupleID, vendorID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find conversation by pair: %w", err)
	}
	return conv, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	conv, err := scanConversation(r.db.QueryRowContext(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (r *ConversationRepo) ListForParty(ctx context.Context, partyID int64, role domain.Role) ([]*domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE `+ownerColumn(role)+` = ? AND `+deletedColumn(role)+` = 0
		ORDER BY last_message_at DESC
	`, partyID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var res []*domain.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *ConversationRepo) ResetUnread(ctx context.Context, conversationID int64, reader domain.Role) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE conversations SET `+unreadColumn(reader)+` = 0 WHERE id = ?
	`, conversationID)
	if err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}
	return nil
}

// SoftDelete sets the caller's flag on the conversation and on every message
// in the thread in one transaction.
func (r *ConversationRepo) SoftDelete(ctx context.Context, conversationID int64, role domain.Role, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE conversations
		SET `+deletedColumn(role)+` = 1, `+deletedAtColumn(role)+` = ?
		WHERE id = ? AND `+deletedColumn(role)+` = 0
	`, at, conversationID); err != nil {
		return fmt.Errorf("soft delete conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE messages SET `+deletedColumn(role)+` = 1 WHERE conversation_id = ?
	`, conversationID); err != nil {
		return fmt.Errorf("soft delete messages: %w", err)
	}

	return tx.Commit()
}
