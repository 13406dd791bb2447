package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/service"
)

func TestListConversations(t *testing.T) {
	caller := domain.PartyIdentity{PartyID: 3, Role: domain.RoleCouple}

	convRepo := new(MockConversationRepo)
	msgRepo := new(MockMessageRepo)
	parties := new(MockPartyRepo)
	enc := newTestEncryptor()
	svc := service.NewConversationService(convRepo, msgRepo, parties, enc)

	conv := &domain.Conversation{
		ID:                1,
		CoupleID:          caller.PartyID,
		VendorID:          9,
		CoupleUnreadCount: 2,
		VendorUnreadCount: 5,
	}
	convRepo.On("ListForParty", mock.Anything, caller.PartyID, domain.RoleCouple).Return([]*domain.Conversation{conv}, nil)
	parties.On("GetByID", mock.Anything, int64(9)).Return(&domain.Party{ID: 9, DisplayName: "Fotograf Nordlys", Email: "post@nordlysfoto.no"}, nil)

	body, _ := enc.Encrypt("Vi sender et tilbud i morgen")
	last := &domain.Message{ID: 4, ConversationID: 1, Body: body}
	msgRepo.On("LastVisible", mock.Anything, conv.ID, domain.RoleCouple).Return(last, nil)

	res, err := svc.ListFor(context.Background(), caller)
	assert.NoError(t, err)
	assert.Len(t, res, 1)
	// The caller sees its own counter, not the vendor's.
	assert.Equal(t, 2, res[0].UnreadCount)
	assert.Equal(t, "Fotograf Nordlys", res[0].Counterpart.DisplayName)
	assert.Equal(t, "Vi sender et tilbud i morgen", *res[0].LastMessage)
}

func TestGetConversation(t *testing.T) {
	caller := domain.PartyIdentity{PartyID: 3, Role: domain.RoleCouple}

	t.Run("CounterpartSeenAt", func(t *testing.T) {
		convRepo := new(MockConversationRepo)
		msgRepo := new(MockMessageRepo)
		parties := new(MockPartyRepo)
		svc := service.NewConversationService(convRepo, msgRepo, parties, newTestEncryptor())

		conv := &domain.Conversation{ID: 1, CoupleID: caller.PartyID, VendorID: 9}
		convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
		parties.On("GetByID", mock.Anything, int64(9)).Return(&domain.Party{ID: 9, DisplayName: "Fotograf Nordlys"}, nil)

		seen := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
		last := &domain.Message{ID: 8, SenderRole: domain.RoleCouple, ReadAt: &seen}
		msgRepo.On("LastBySender", mock.Anything, conv.ID, domain.RoleCouple).Return(last, nil)

		detail, err := svc.Get(context.Background(), conv.ID, caller)
		assert.NoError(t, err)
		assert.Equal(t, &seen, detail.CounterpartSeenAt)
	})

	t.Run("ForeignIsNotFound", func(t *testing.T) {
		convRepo := new(MockConversationRepo)
		svc := service.NewConversationService(convRepo, new(MockMessageRepo), new(MockPartyRepo), newTestEncryptor())

		conv := &domain.Conversation{ID: 1, CoupleID: 99, VendorID: 9}
		convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

		_, err := svc.Get(context.Background(), conv.ID, caller)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Missing", func(t *testing.T) {
		convRepo := new(MockConversationRepo)
		svc := service.NewConversationService(convRepo, new(MockMessageRepo), new(MockPartyRepo), newTestEncryptor())

		convRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

		_, err := svc.Get(context.Background(), 404, caller)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMarkConversationRead(t *testing.T) {
	caller := domain.PartyIdentity{PartyID: 3, Role: domain.RoleCouple}

	convRepo := new(MockConversationRepo)
	svc := service.NewConversationService(convRepo, new(MockMessageRepo), new(MockPartyRepo), newTestEncryptor())

	conv := &domain.Conversation{ID: 1, CoupleID: caller.PartyID, VendorID: 9, CoupleUnreadCount: 3}
	convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	convRepo.On("ResetUnread", mock.Anything, conv.ID, domain.RoleCouple).Return(nil)

	err := svc.MarkRead(context.Background(), conv.ID, caller)
	assert.NoError(t, err)
	// Only the reader's counter is reset.
	convRepo.AssertCalled(t, "ResetUnread", mock.Anything, conv.ID, domain.RoleCouple)
}

func TestSoftDeleteConversation(t *testing.T) {
	caller := domain.PartyIdentity{PartyID: 9, Role: domain.RoleVendor}

	t.Run("Success", func(t *testing.T) {
		convRepo := new(MockConversationRepo)
		svc := service.NewConversationService(convRepo, new(MockMessageRepo), new(MockPartyRepo), newTestEncryptor())

		conv := &domain.Conversation{ID: 1, CoupleID: 3, VendorID: caller.PartyID}
		convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
		convRepo.On("SoftDelete", mock.Anything, conv.ID, domain.RoleVendor, mock.Anything).Return(nil)

		assert.NoError(t, svc.SoftDelete(context.Background(), conv.ID, caller))
	})

	t.Run("RepeatIsNoop", func(t *testing.T) {
		convRepo := new(MockConversationRepo)
		svc := service.NewConversationService(convRepo, new(MockMessageRepo), new(MockPartyRepo), newTestEncryptor())

		conv := &domain.Conversation{ID: 1, CoupleID: 3, VendorID: caller.PartyID, DeletedByVendor: true}
		convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

		assert.NoError(t, svc.SoftDelete(context.Background(), conv.ID, caller))
		convRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
