package service

import (
	"context"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
)

// ReminderService records vendor-scheduled nudges for threads going stale.
// An external worker polls pending reminders and flips them to sent.
type ReminderService struct {
	reminders     domain.ReminderRepository
	conversations domain.ConversationRepository
}

func NewReminderService(reminders domain.ReminderRepository, conversations domain.ConversationRepository) *ReminderService {
	return &ReminderService{reminders: reminders, conversations: conversations}
}

// Schedule persists a pending reminder for a conversation the vendor owns.
// No uniqueness is enforced: stacking gentle/firm/final tiers on one thread
// is an explicit vendor choice.
func (s *ReminderService) Schedule(ctx context.Context, conversationID, vendorID int64, typ domain.ReminderType, scheduledFor time.Time) (*domain.MessageReminder, error) {
	if scheduledFor.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil || conv.VendorID != vendorID {
		return nil, domain.ErrNotFound
	}

	rem := &domain.MessageReminder{
		ConversationID: conversationID,
		VendorID:       vendorID,
		CoupleID:       conv.CoupleID,
		ReminderType:   typ,
		ScheduledFor:   scheduledFor,
		Status:         domain.ReminderPending,
	}
	if err := s.reminders.Create(ctx, rem); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return rem, nil
}

// ListPending returns the vendor's pending reminders, soonest first.
func (s *ReminderService) ListPending(ctx context.Context, vendorID int64) ([]*domain.MessageReminder, error) {
	return s.reminders.ListPendingForVendor(ctx, vendorID)
}

// Cancel transitions pending -> cancelled. Reminders that are absent, not
// owned by the caller, or already resolved all report ErrNotFound.
func (s *ReminderService) Cancel(ctx context.Context, reminderID, vendorID int64) error {
	ok, err := s.reminders.CancelPending(ctx, reminderID, vendorID)
	if err != nil {
		return fmt.Errorf("cancel reminder: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
