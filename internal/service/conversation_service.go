package service

import (
	"context"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
)

// ConversationService owns conversation records, their per-party visibility
// and unread counters.
type ConversationService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	parties       domain.PartyRepository
	encryptor     *security.Encryptor
}

func NewConversationService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	parties domain.PartyRepository,
	encryptor *security.Encryptor,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		parties:       parties,
		encryptor:     encryptor,
	}
}

// PartySummary is the counterpart profile attached to listings.
type PartySummary struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// ConversationSummary is one listing entry: the conversation enriched with
// the counterpart's profile and the last message the caller can see.
type ConversationSummary struct {
	*domain.Conversation
	Counterpart *PartySummary `json:"counterpart,omitempty"`
	LastMessage *string       `json:"last_message,omitempty"`
	UnreadCount int           `json:"unread_count"`
}

// ConversationDetail adds the derived read receipt: the read_at of the
// caller's newest message, i.e. when the counterpart last saw the thread.
type ConversationDetail struct {
	*domain.Conversation
	Counterpart       *PartySummary `json:"counterpart,omitempty"`
	UnreadCount       int           `json:"unread_count"`
	CounterpartSeenAt *time.Time    `json:"counterpart_seen_at,omitempty"`
}

// FindOrCreate returns the unique conversation for the pair, creating it on
// first contact.
func (s *ConversationService) FindOrCreate(ctx context.Context, coupleID, vendorID int64, originInquiryID *int64) (*domain.Conversation, error) {
	return s.conversations.FindOrCreate(ctx, coupleID, vendorID, originInquiryID)
}

// getOwned loads the conversation and verifies the caller occupies its role
// slot. Absence and ownership mismatch are reported identically so
// non-owners cannot probe for existence.
func (s *ConversationService) getOwned(ctx context.Context, conversationID int64, identity domain.PartyIdentity) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil || conv.Owner(identity.Role) != identity.PartyID {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

// ListFor returns the caller's conversations, most recent first, excluding
// ones the caller has soft-deleted.
func (s *ConversationService) ListFor(ctx context.Context, identity domain.PartyIdentity) ([]*ConversationSummary, error) {
	convs, err := s.conversations.ListForParty(ctx, identity.PartyID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	res := make([]*ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := &ConversationSummary{
			Conversation: conv,
			UnreadCount:  conv.UnreadFor(identity.Role),
		}
		if p, err := s.parties.GetByID(ctx, conv.Owner(identity.Role.Counterpart())); err == nil && p != nil {
			summary.Counterpart = &PartySummary{ID: p.ID, DisplayName: p.DisplayName, Email: p.Email}
		}
		if last, err := s.messages.LastVisible(ctx, conv.ID, identity.Role); err == nil && last != nil {
			if body, err := s.encryptor.Decrypt(last.Body); err == nil {
				summary.LastMessage = &body
			}
		}
		res = append(res, summary)
	}
	return res, nil
}

// Get returns one conversation with the derived counterpart-seen timestamp.
func (s *ConversationService) Get(ctx context.Context, conversationID int64, identity domain.PartyIdentity) (*ConversationDetail, error) {
	conv, err := s.getOwned(ctx, conversationID, identity)
	if err != nil {
		return nil, err
	}
	detail := &ConversationDetail{
		Conversation: conv,
		UnreadCount:  conv.UnreadFor(identity.Role),
	}
	if p, err := s.parties.GetByID(ctx, conv.Owner(identity.Role.Counterpart())); err == nil && p != nil {
		detail.Counterpart = &PartySummary{ID: p.ID, DisplayName: p.DisplayName, Email: p.Email}
	}
	if last, err := s.messages.LastBySender(ctx, conv.ID, identity.Role); err == nil && last != nil {
		detail.CounterpartSeenAt = last.ReadAt
	}
	return detail, nil
}

// MarkRead zeroes the caller's unread counter. The counterpart's counter is
// untouched.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID int64, identity domain.PartyIdentity) error {
	if _, err := s.getOwned(ctx, conversationID, identity); err != nil {
		return err
	}
	return s.conversations.ResetUnread(ctx, conversationID, identity.Role)
}

// SoftDelete hides the conversation and all its messages from the caller.
// The counterpart's view is untouched. Repeat calls succeed without effect.
func (s *ConversationService) SoftDelete(ctx context.Context, conversationID int64, identity domain.PartyIdentity) error {
	conv, err := s.getOwned(ctx, conversationID, identity)
	if err != nil {
		return err
	}
	if conv.DeletedBy(identity.Role) {
		return nil
	}
	return s.conversations.SoftDelete(ctx, conversationID, identity.Role, time.Now())
}
