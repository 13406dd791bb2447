package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
)

// Shared repository mocks for the service tests.

type MockPartyRepo struct {
	mock.Mock
}

func (m *MockPartyRepo) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepo) GetByEmail(ctx context.Context, email string) (*domain.Party, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) FindOrCreate(ctx context.Context, coupleID, vendorID int64, originInquiryID *int64) (*domain.Conversation, error) {
	args := m.Called(ctx, coupleID, vendorID, originInquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepo) ListForParty(ctx context.Context, partyID int64, role domain.Role) ([]*domain.Conversation, error) {
	args := m.Called(ctx, partyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepo) ResetUnread(ctx context.Context, conversationID int64, reader domain.Role) error {
	args := m.Called(ctx, conversationID, reader)
	return args.Error(0)
}

func (m *MockConversationRepo) SoftDelete(ctx context.Context, conversationID int64, role domain.Role, at time.Time) error {
	args := m.Called(ctx, conversationID, role, at)
	return args.Error(0)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) ListVisible(ctx context.Context, conversationID int64, reader domain.Role) ([]*domain.Message, error) {
	args := m.Called(ctx, conversationID, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) MarkThreadRead(ctx context.Context, conversationID int64, reader domain.Role, at time.Time) error {
	args := m.Called(ctx, conversationID, reader, at)
	return args.Error(0)
}

func (m *MockMessageRepo) SoftDelete(ctx context.Context, messageID int64, role domain.Role) error {
	args := m.Called(ctx, messageID, role)
	return args.Error(0)
}

func (m *MockMessageRepo) LastVisible(ctx context.Context, conversationID int64, reader domain.Role) (*domain.Message, error) {
	args := m.Called(ctx, conversationID, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) LastBySender(ctx context.Context, conversationID int64, sender domain.Role) (*domain.Message, error) {
	args := m.Called(ctx, conversationID, sender)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) CreateWithItems(ctx context.Context, o *domain.Offer, notify *domain.Message) error {
	args := m.Called(ctx, o, notify)
	return args.Error(0)
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) UpdateStatusIfPending(ctx context.Context, offerID int64, status domain.OfferStatus, at time.Time, notify *domain.Message) (bool, error) {
	args := m.Called(ctx, offerID, status, at, notify)
	return args.Bool(0), args.Error(1)
}

func (m *MockOfferRepo) ListForVendor(ctx context.Context, vendorID int64) ([]*domain.Offer, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) ListForCouple(ctx context.Context, coupleID int64) ([]*domain.Offer, error) {
	args := m.Called(ctx, coupleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Offer), args.Error(1)
}

type MockReminderRepo struct {
	mock.Mock
}

func (m *MockReminderRepo) Create(ctx context.Context, r *domain.MessageReminder) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReminderRepo) ListPendingForVendor(ctx context.Context, vendorID int64) ([]*domain.MessageReminder, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MessageReminder), args.Error(1)
}

func (m *MockReminderRepo) CancelPending(ctx context.Context, id, vendorID int64) (bool, error) {
	args := m.Called(ctx, id, vendorID)
	return args.Bool(0), args.Error(1)
}

func newTestEncryptor() *security.Encryptor {
	enc, err := security.NewEncryptor([]byte("test-encryption-key"))
	if err != nil {
		panic(err)
	}
	return enc
}
