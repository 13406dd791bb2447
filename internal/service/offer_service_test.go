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

func TestCreateOffer(t *testing.T) {
	vendorID := int64(9)

	t.Run("TotalsAreSumOfLines", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), newTestEncryptor())

		offerRepo.On("CreateWithItems", mock.Anything, mock.Anything, (*domain.Message)(nil)).Return(nil)

		offer, err := svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID: 3,
			Title:    "Fotopakke",
			Items: []service.OfferItemInput{
				{Title: "Timer", Quantity: 2, UnitPrice: 500},
				{Title: "Album", Quantity: 1, UnitPrice: 1500},
			},
		}, vendorID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2500), offer.TotalAmount)
		assert.Equal(t, int64(1000), offer.Items[0].LineTotal)
		assert.Equal(t, int64(1500), offer.Items[1].LineTotal)
		assert.Equal(t, domain.OfferPending, offer.Status)
	})

	t.Run("AttachedOfferNotifiesThread", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		convRepo := new(MockConversationRepo)
		enc := newTestEncryptor()
		svc := service.NewOfferService(offerRepo, convRepo, new(MockPartyRepo), enc)

		convID := int64(1)
		conv := &domain.Conversation{ID: convID, CoupleID: 3, VendorID: vendorID}
		convRepo.On("GetByID", mock.Anything, convID).Return(conv, nil)
		offerRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			plain, err := enc.Decrypt(m.Body)
			return err == nil && plain == "Nytt tilbud: Bryllupspakke (12000 kr)" &&
				m.System && m.SenderRole == domain.RoleVendor
		})).Return(nil)

		offer, err := svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID:       3,
			ConversationID: &convID,
			Title:          "Bryllupspakke",
			Items: []service.OfferItemInput{
				{Title: "Heldagsfotografering", Quantity: 1, UnitPrice: 12000},
			},
		}, vendorID)
		assert.NoError(t, err)
		assert.Equal(t, int64(12000), offer.TotalAmount)
	})

	t.Run("ForeignConversationIsNotFound", func(t *testing.T) {
		convRepo := new(MockConversationRepo)
		svc := service.NewOfferService(new(MockOfferRepo), convRepo, new(MockPartyRepo), newTestEncryptor())

		convID := int64(1)
		conv := &domain.Conversation{ID: convID, CoupleID: 3, VendorID: 77}
		convRepo.On("GetByID", mock.Anything, convID).Return(conv, nil)

		_, err := svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID:       3,
			ConversationID: &convID,
			Title:          "Pakke",
			Items:          []service.OfferItemInput{{Title: "Time", Quantity: 1, UnitPrice: 100}},
		}, vendorID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := service.NewOfferService(new(MockOfferRepo), new(MockConversationRepo), new(MockPartyRepo), newTestEncryptor())

		_, err := svc.Create(context.Background(), service.OfferCreateInput{CoupleID: 3, Title: "", Items: nil}, vendorID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID: 3,
			Title:    "Pakke",
			Items:    []service.OfferItemInput{{Title: "Time", Quantity: 0, UnitPrice: 100}},
		}, vendorID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID: 3,
			Title:    "Pakke",
			Items:    []service.OfferItemInput{{Title: "Time", Quantity: 1, UnitPrice: -1}},
		}, vendorID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		// Amounts past the caps are rejected before any total is computed,
		// so line totals can never wrap around int64.
		_, err = svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID: 3,
			Title:    "Pakke",
			Items:    []service.OfferItemInput{{Title: "Time", Quantity: 10_001, UnitPrice: 100}},
		}, vendorID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Create(context.Background(), service.OfferCreateInput{
			CoupleID: 3,
			Title:    "Pakke",
			Items:    []service.OfferItemInput{{Title: "Time", Quantity: 1, UnitPrice: 1_000_000_001}},
		}, vendorID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRespondOffer(t *testing.T) {
	coupleID := int64(3)
	convID := int64(1)

	pendingOffer := func() *domain.Offer {
		return &domain.Offer{
			ID:             20,
			VendorID:       9,
			CoupleID:       coupleID,
			ConversationID: &convID,
			Title:          "Bryllupspakke",
			TotalAmount:    12000,
			Status:         domain.OfferPending,
		}
	}

	t.Run("Accept", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		enc := newTestEncryptor()
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), enc)

		offer := pendingOffer()
		offerRepo.On("GetByID", mock.Anything, offer.ID).Return(offer, nil)
		offerRepo.On("UpdateStatusIfPending", mock.Anything, offer.ID, domain.OfferAccepted, mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			plain, err := enc.Decrypt(m.Body)
			return err == nil && plain == "Tilbudet «Bryllupspakke» ble akseptert" &&
				m.System && m.SenderRole == domain.RoleCouple
		})).Return(true, nil)

		res, err := svc.Respond(context.Background(), offer.ID, coupleID, service.DecisionAccept)
		assert.NoError(t, err)
		assert.Equal(t, domain.OfferAccepted, res.Status)
		assert.NotNil(t, res.AcceptedAt)
		assert.Nil(t, res.DeclinedAt)
	})

	t.Run("Decline", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		enc := newTestEncryptor()
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), enc)

		offer := pendingOffer()
		offerRepo.On("GetByID", mock.Anything, offer.ID).Return(offer, nil)
		offerRepo.On("UpdateStatusIfPending", mock.Anything, offer.ID, domain.OfferDeclined, mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			plain, err := enc.Decrypt(m.Body)
			return err == nil && plain == "Tilbudet «Bryllupspakke» ble avslått"
		})).Return(true, nil)

		res, err := svc.Respond(context.Background(), offer.ID, coupleID, service.DecisionDecline)
		assert.NoError(t, err)
		assert.Equal(t, domain.OfferDeclined, res.Status)
		assert.NotNil(t, res.DeclinedAt)
	})

	t.Run("TerminalStateIsConflict", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), newTestEncryptor())

		offer := pendingOffer()
		offer.Status = domain.OfferAccepted
		offerRepo.On("GetByID", mock.Anything, offer.ID).Return(offer, nil)

		_, err := svc.Respond(context.Background(), offer.ID, coupleID, service.DecisionDecline)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("LostRaceIsConflict", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), newTestEncryptor())

		// Status reads pending but another response lands first; the
		// conditional write reports no rows.
		offer := pendingOffer()
		offerRepo.On("GetByID", mock.Anything, offer.ID).Return(offer, nil)
		offerRepo.On("UpdateStatusIfPending", mock.Anything, offer.ID, domain.OfferAccepted, mock.Anything, mock.Anything).Return(false, nil)

		_, err := svc.Respond(context.Background(), offer.ID, coupleID, service.DecisionAccept)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("ForeignCoupleIsForbidden", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), newTestEncryptor())

		offer := pendingOffer()
		offerRepo.On("GetByID", mock.Anything, offer.ID).Return(offer, nil)

		_, err := svc.Respond(context.Background(), offer.ID, int64(555), service.DecisionAccept)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Missing", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, new(MockConversationRepo), new(MockPartyRepo), newTestEncryptor())

		offerRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

		_, err := svc.Respond(context.Background(), 404, coupleID, service.DecisionAccept)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestParseDecision(t *testing.T) {
	d, err := service.ParseDecision("accept")
	assert.NoError(t, err)
	assert.Equal(t, service.DecisionAccept, d)

	_, err = service.ParseDecision("maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListOffers(t *testing.T) {
	offerRepo := new(MockOfferRepo)
	parties := new(MockPartyRepo)
	svc := service.NewOfferService(offerRepo, new(MockConversationRepo), parties, newTestEncryptor())

	offers := []*domain.Offer{{ID: 20, VendorID: 9, CoupleID: 3, Title: "Bryllupspakke", TotalAmount: 12000, CreatedAt: time.Now()}}
	offerRepo.On("ListForVendor", mock.Anything, int64(9)).Return(offers, nil)
	parties.On("GetByID", mock.Anything, int64(3)).Return(&domain.Party{ID: 3, DisplayName: "Kari og Ola"}, nil)

	res, err := svc.ListForVendor(context.Background(), 9)
	assert.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "Kari og Ola", res[0].Counterpart.DisplayName)
}
