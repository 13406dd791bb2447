package domain

import "time"

// Role identifies which side of the marketplace a party acts as.
type Role string

const (
	RoleVendor Role = "vendor"
	RoleCouple Role = "couple"
)

// ParseRole validates a role string coming from the outside.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleVendor, RoleCouple:
		return Role(s), nil
	}
	return "", ErrInvalidInput
}

// Counterpart returns the opposite role.
func (r Role) Counterpart() Role {
	if r == RoleVendor {
		return RoleCouple
	}
	return RoleVendor
}

// ConversationStatus for the conversation lifecycle.
type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationArchived ConversationStatus = "archived"
)

// OfferStatus is the offer state machine: pending is the only non-terminal state.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
)

// ReminderType is the escalation tier a vendor picks explicitly.
type ReminderType string

const (
	ReminderGentle ReminderType = "gentle"
	ReminderFirm   ReminderType = "firm"
	ReminderFinal  ReminderType = "final"
)

// ParseReminderType validates a reminder type string coming from the outside.
func ParseReminderType(s string) (ReminderType, error) {
	switch ReminderType(s) {
	case ReminderGentle, ReminderFirm, ReminderFinal:
		return ReminderType(s), nil
	}
	return "", ErrInvalidInput
}

// ReminderStatus for the reminder lifecycle.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Party is a registered vendor or couple. Registration and approval live
// outside this service; parties are only read here.
type Party struct {
	ID             int64     `db:"id" json:"id"`
	Role           Role      `db:"role" json:"role"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PartyIdentity is the result of resolving a bearer credential.
type PartyIdentity struct {
	PartyID int64 `json:"party_id"`
	Role    Role  `json:"role"`
}

// Session is the durable record behind a bearer token. The in-memory cache
// is only an accelerator; this row is authoritative.
type Session struct {
	ID        string    `db:"id"`
	PartyID   int64     `db:"party_id"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Conversation is the message thread between exactly one couple and one
// vendor. At most one exists per pair. Each side can soft-delete its view
// independently; the row itself is never removed here.
type Conversation struct {
	ID                  int64              `db:"id" json:"id"`
	CoupleID            int64              `db:"couple_id" json:"couple_id"`
	VendorID            int64              `db:"vendor_id" json:"vendor_id"`
	OriginInquiryID     *int64             `db:"origin_inquiry_id" json:"origin_inquiry_id,omitempty"`
	OriginCatalogItemID *int64             `db:"origin_catalog_item_id" json:"origin_catalog_item_id,omitempty"`
	Status              ConversationStatus `db:"status" json:"status"`
	LastMessageAt       time.Time          `db:"last_message_at" json:"last_message_at"`
	CoupleUnreadCount   int                `db:"couple_unread_count" json:"couple_unread_count"`
	VendorUnreadCount   int                `db:"vendor_unread_count" json:"vendor_unread_count"`
	DeletedByCouple     bool               `db:"deleted_by_couple" json:"-"`
	DeletedByVendor     bool               `db:"deleted_by_vendor" json:"-"`
	CoupleDeletedAt     *time.Time         `db:"couple_deleted_at" json:"-"`
	VendorDeletedAt     *time.Time         `db:"vendor_deleted_at" json:"-"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
}

// Owner returns the party id occupying the given role slot.
func (c *Conversation) Owner(role Role) int64 {
	if role == RoleVendor {
		return c.VendorID
	}
	return c.CoupleID
}

// UnreadFor returns the unread counter for the given role.
func (c *Conversation) UnreadFor(role Role) int {
	if role == RoleVendor {
		return c.VendorUnreadCount
	}
	return c.CoupleUnreadCount
}

// DeletedBy reports whether the given role has soft-deleted the conversation.
func (c *Conversation) DeletedBy(role Role) bool {
	if role == RoleVendor {
		return c.DeletedByVendor
	}
	return c.DeletedByCouple
}

// Message is a single thread entry. ReadAt is set at most once, by the
// counterpart's read, and never cleared. System messages are emitted by the
// offer engine on behalf of the acting party.
type Message struct {
	ID              int64      `db:"id" json:"id"`
	ConversationID  int64      `db:"conversation_id" json:"conversation_id"`
	SenderRole      Role       `db:"sender_role" json:"sender_role"`
	SenderID        int64      `db:"sender_id" json:"sender_id"`
	Body            string     `db:"body" json:"body"` // encrypted at rest
	System          bool       `db:"system" json:"system"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ReadAt          *time.Time `db:"read_at" json:"read_at,omitempty"`
	DeletedByCouple bool       `db:"deleted_by_couple" json:"-"`
	DeletedByVendor bool       `db:"deleted_by_vendor" json:"-"`
}

// DeletedBy reports whether the given role has soft-deleted the message.
func (m *Message) DeletedBy(role Role) bool {
	if role == RoleVendor {
		return m.DeletedByVendor
	}
	return m.DeletedByCouple
}

// Offer is a vendor-authored, itemized commercial proposal. TotalAmount is
// fixed at creation; status only ever leaves pending once.
type Offer struct {
	ID             int64       `db:"id" json:"id"`
	VendorID       int64       `db:"vendor_id" json:"vendor_id"`
	CoupleID       int64       `db:"couple_id" json:"couple_id"`
	ConversationID *int64      `db:"conversation_id" json:"conversation_id,omitempty"`
	Title          string      `db:"title" json:"title"`
	Message        string      `db:"message" json:"message"`
	Items          []OfferItem `db:"-" json:"items"`
	TotalAmount    int64       `db:"total_amount" json:"total_amount"`
	Status         OfferStatus `db:"status" json:"status"`
	ValidUntil     *time.Time  `db:"valid_until" json:"valid_until,omitempty"`
	AcceptedAt     *time.Time  `db:"accepted_at" json:"accepted_at,omitempty"`
	DeclinedAt     *time.Time  `db:"declined_at" json:"declined_at,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// OfferItem is one offer line. Immutable once the offer exists.
type OfferItem struct {
	ID          int64  `db:"id" json:"id"`
	OfferID     int64  `db:"offer_id" json:"offer_id"`
	ProductID   *int64 `db:"product_id" json:"product_id,omitempty"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description,omitempty"`
	Quantity    int    `db:"quantity" json:"quantity"`
	UnitPrice   int64  `db:"unit_price" json:"unit_price"`
	LineTotal   int64  `db:"line_total" json:"line_total"`
	SortOrder   int    `db:"sort_order" json:"sort_order"`
}

// MessageReminder is a vendor-scheduled nudge for a stalling thread,
// dispatched by an external worker.
type MessageReminder struct {
	ID             int64          `db:"id" json:"id"`
	ConversationID int64          `db:"conversation_id" json:"conversation_id"`
	VendorID       int64          `db:"vendor_id" json:"vendor_id"`
	CoupleID       int64          `db:"couple_id" json:"couple_id"`
	ReminderType   ReminderType   `db:"reminder_type" json:"reminder_type"`
	ScheduledFor   time.Time      `db:"scheduled_for" json:"scheduled_for"`
	Status         ReminderStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
