package service

import (
	"context"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
)

const maxMessageLength = 5000

// MessageService appends messages, maintains the counterpart's unread
// counter and handles per-party soft deletes and read receipts.
type MessageService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	parties       domain.PartyRepository
	encryptor     *security.Encryptor
}

func NewMessageService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	parties domain.PartyRepository,
	encryptor *security.Encryptor,
) *MessageService {
	return &MessageService{
		conversations: conversations,
		messages:      messages,
		parties:       parties,
		encryptor:     encryptor,
	}
}

// SendInput carries either an existing conversation id or, for first
// contact, the counterpart's id so the pair conversation can be created.
type SendInput struct {
	ConversationID  *int64
	CounterpartID   *int64
	OriginInquiryID *int64
	Body            string
}

// Send appends a message. The conversation's last_message_at and the
// counterpart's unread counter are updated in the same storage transaction.
func (s *MessageService) Send(ctx context.Context, in SendInput, identity domain.PartyIdentity) (*MessageResponse, error) {
	if in.Body == "" || len([]rune(in.Body)) > maxMessageLength {
		return nil, domain.ErrInvalidInput
	}

	var conv *domain.Conversation
	var err error
	switch {
	case in.ConversationID != nil:
		conv, err = s.conversations.GetByID(ctx, *in.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("get conversation: %w", err)
		}
		if conv == nil || conv.Owner(identity.Role) != identity.PartyID {
			return nil, domain.ErrNotFound
		}
	case in.CounterpartID != nil:
		// First contact: create or reuse the pair conversation.
		coupleID, vendorID := identity.PartyID, *in.CounterpartID
		if identity.Role == domain.RoleVendor {
			coupleID, vendorID = *in.CounterpartID, identity.PartyID
		}
		conv, err = s.conversations.FindOrCreate(ctx, coupleID, vendorID, in.OriginInquiryID)
		if err != nil {
			return nil, fmt.Errorf("find or create conversation: %w", err)
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	encrypted, err := s.encryptor.Encrypt(in.Body)
	if err != nil {
		return nil, fmt.Errorf("encrypt body: %w", err)
	}

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderRole:     identity.Role,
		SenderID:       identity.PartyID,
		Body:           encrypted,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return s.toResponse(ctx, msg)
}

// List returns the thread in chronological order, excluding messages the
// reader has soft-deleted. Reading implies acknowledging: the counterpart's
// messages are stamped read and the reader's unread counter is zeroed first.
func (s *MessageService) List(ctx context.Context, conversationID int64, identity domain.PartyIdentity) ([]*MessageResponse, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil || conv.Owner(identity.Role) != identity.PartyID {
		return nil, domain.ErrNotFound
	}

	if err := s.messages.MarkThreadRead(ctx, conversationID, identity.Role, time.Now()); err != nil {
		return nil, fmt.Errorf("mark thread read: %w", err)
	}

	msgs, err := s.messages.ListVisible(ctx, conversationID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	res := make([]*MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		dto, err := s.toResponse(ctx, m)
		if err != nil {
			return nil, err
		}
		res = append(res, dto)
	}
	return res, nil
}

// SoftDelete hides a single message from the caller. The conversation's
// aggregate flags are untouched. Repeat calls succeed without effect.
func (s *MessageService) SoftDelete(ctx context.Context, messageID int64, identity domain.PartyIdentity) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return domain.ErrNotFound
	}
	conv, err := s.conversations.GetByID(ctx, msg.ConversationID)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil || conv.Owner(identity.Role) != identity.PartyID {
		return domain.ErrNotFound
	}
	if msg.DeletedBy(identity.Role) {
		return nil
	}
	return s.messages.SoftDelete(ctx, messageID, identity.Role)
}

// MessageResponse is a decrypted message DTO with the sender's display name.
type MessageResponse struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversation_id"`
	SenderRole     domain.Role `json:"sender_role"`
	SenderID       int64       `json:"sender_id"`
	SenderName     string      `json:"sender_name,omitempty"`
	Body           string      `json:"body"`
	System         bool        `json:"system"`
	CreatedAt      time.Time   `json:"created_at"`
	ReadAt         *time.Time  `json:"read_at,omitempty"`
}

func (s *MessageService) toResponse(ctx context.Context, m *domain.Message) (*MessageResponse, error) {
	body := m.Body
	if dec, err := s.encryptor.Decrypt(m.Body); err == nil {
		body = dec
	}
	var name string
	if p, err := s.parties.GetByID(ctx, m.SenderID); err == nil && p != nil {
		name = p.DisplayName
	}
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderRole:     m.SenderRole,
		SenderID:       m.SenderID,
		SenderName:     name,
		Body:           body,
		System:         m.System,
		CreatedAt:      m.CreatedAt,
		ReadAt:         m.ReadAt,
	}, nil
}
