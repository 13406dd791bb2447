package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
)

type ReminderRepo struct {
	db *sql.DB
}

func NewReminderRepo(db *sql.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

var _ domain.ReminderRepository = (*ReminderRepo)(nil)

func (r *ReminderRepo) Create(ctx context.Context, rem *domain.MessageReminder) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO message_reminders (conversation_id, vendor_id, couple_id, reminder_type, scheduled_for, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rem.ConversationID, rem.VendorID, rem.CoupleID, rem.ReminderType, rem.ScheduledFor, rem.Status, now)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	rem.ID = id
	rem.CreatedAt = now
	return nil
}

func (r *ReminderRepo) ListPendingForVendor(ctx context.Context, vendorID int64) ([]*domain.MessageReminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, vendor_id, couple_id, reminder_type, scheduled_for, status, created_at
		FROM message_reminders
		WHERE vendor_id = ? AND status = 'pending'
		ORDER BY scheduled_for ASC
	`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var res []*domain.MessageReminder
	for rows.Next() {
		rem := &domain.MessageReminder{}
		if err := rows.Scan(&rem.ID, &rem.ConversationID, &rem.VendorID, &rem.CoupleID, &rem.ReminderType, &rem.ScheduledFor, &rem.Status, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		res = append(res, rem)
	}
	return res, rows.Err()
}

// CancelPending only touches rows still pending and owned by the vendor, so
// resolved or foreign reminders report not-found upstream.
func (r *ReminderRepo) CancelPending(ctx context.Context, id, vendorID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE message_reminders SET status = 'cancelled'
		WHERE id = ? AND vendor_id = ? AND status = 'pending'
	`, id, vendorID)
	if err != nil {
		return false, fmt.Errorf("cancel reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
