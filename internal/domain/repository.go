package domain

import (
	"context"
	"time"
)

// Lookup methods return (nil, nil) when the row is absent; services decide
// whether that maps to ErrNotFound.

// PartyRepository reads party profiles. Parties are written by the
// registration flow, which lives outside this service.
type PartyRepository interface {
	GetByID(ctx context.Context, id int64) (*Party, error)
	GetByEmail(ctx context.Context, email string) (*Party, error)
}

// SessionRepository persists the durable session rows behind bearer tokens.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ConversationRepository persists conversations and their per-party
// visibility and unread state.
type ConversationRepository interface {
	// FindOrCreate returns the pair's conversation, creating it if absent.
	// Idempotent under concurrent calls for the same (couple, vendor).
	FindOrCreate(ctx context.Context, coupleID, vendorID int64, originInquiryID *int64) (*Conversation, error)
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	// ListForParty returns conversations not soft-deleted by the caller,
	// most recent message first.
	ListForParty(ctx context.Context, partyID int64, role Role) ([]*Conversation, error)
	// ResetUnread zeroes the reader's counter without touching the counterpart's.
	ResetUnread(ctx context.Context, conversationID int64, reader Role) error
	// SoftDelete sets the caller's delete flag and cascades it to every
	// message in the thread in the same transaction. Repeat calls are no-ops.
	SoftDelete(ctx context.Context, conversationID int64, role Role, at time.Time) error
}

// MessageRepository persists messages. Create and MarkThreadRead also mutate
// the owning conversation's counters, as atomic deltas at the storage layer.
type MessageRepository interface {
	// Create inserts the message, stamps the conversation's last_message_at
	// and increments the counterpart's unread counter, all in one transaction.
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	// ListVisible returns the thread in chronological order, excluding
	// messages the reader has soft-deleted.
	ListVisible(ctx context.Context, conversationID int64, reader Role) ([]*Message, error)
	// MarkThreadRead stamps read_at on the counterpart's unread messages and
	// zeroes the reader's unread counter in one transaction.
	MarkThreadRead(ctx context.Context, conversationID int64, reader Role, at time.Time) error
	SoftDelete(ctx context.Context, messageID int64, role Role) error
	// LastVisible returns the newest message the reader can see, or nil.
	LastVisible(ctx context.Context, conversationID int64, reader Role) (*Message, error)
	// LastBySender returns the newest message sent by the given role, or nil.
	// Used to derive "seen by counterpart" from its read_at.
	LastBySender(ctx context.Context, conversationID int64, sender Role) (*Message, error)
}

// OfferRepository persists offers with their items. The optional notify
// message rides in the same transaction as the offer mutation so the offer
// and its thread notification are one observable unit of work.
type OfferRepository interface {
	// CreateWithItems inserts the offer and all items atomically. If notify
	// is non-nil it is appended to the thread and the couple's unread
	// counter incremented in the same transaction.
	CreateWithItems(ctx context.Context, o *Offer, notify *Message) error
	GetByID(ctx context.Context, id int64) (*Offer, error)
	// UpdateStatusIfPending flips the status with a conditional write
	// (WHERE status = 'pending'). Returns false when the gate fails, so two
	// near-simultaneous responses cannot both succeed. A non-nil notify is
	// applied in the same transaction, incrementing the vendor's unread.
	UpdateStatusIfPending(ctx context.Context, offerID int64, status OfferStatus, at time.Time, notify *Message) (bool, error)
	ListForVendor(ctx context.Context, vendorID int64) ([]*Offer, error)
	ListForCouple(ctx context.Context, coupleID int64) ([]*Offer, error)
}

// ReminderRepository persists anti-ghosting reminders. Dispatching due
// reminders (pending -> sent) belongs to an external worker.
type ReminderRepository interface {
	Create(ctx context.Context, r *MessageReminder) error
	ListPendingForVendor(ctx context.Context, vendorID int64) ([]*MessageReminder, error)
	// CancelPending transitions pending -> cancelled for the owning vendor.
	// Returns false when the reminder is absent, not owned, or already resolved.
	CancelPending(ctx context.Context, id, vendorID int64) (bool, error)
}
