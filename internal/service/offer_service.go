package service

import (
	"context"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
)

// OfferService creates itemized commercial offers and drives the
// accept/decline state machine. Each transition posts a system message into
// the attached thread so both parties share one auditable timeline.
type OfferService struct {
	offers        domain.OfferRepository
	conversations domain.ConversationRepository
	parties       domain.PartyRepository
	encryptor     *security.Encryptor
}

func NewOfferService(
	offers domain.OfferRepository,
	conversations domain.ConversationRepository,
	parties domain.PartyRepository,
	encryptor *security.Encryptor,
) *OfferService {
	return &OfferService{
		offers:        offers,
		conversations: conversations,
		parties:       parties,
		encryptor:     encryptor,
	}
}

type OfferItemInput struct {
	ProductID   *int64
	Title       string
	Description string
	Quantity    int
	UnitPrice   int64
}

type OfferCreateInput struct {
	CoupleID       int64
	ConversationID *int64
	Title          string
	Message        string
	Items          []OfferItemInput
	ValidUntil     *time.Time
}

// Amounts are whole kroner. The caps keep every line total, and the sum of
// all lines, far inside int64 range.
const (
	maxItemQuantity  = 10_000
	maxItemUnitPrice = 1_000_000_000
)

// Decision is the couple's answer to a pending offer.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// ParseDecision validates a decision string coming from the outside.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionAccept, DecisionDecline:
		return Decision(s), nil
	}
	return "", domain.ErrInvalidInput
}

// Create builds the offer, computes line totals and the fixed total amount,
// and persists offer and items atomically. When attached to a conversation,
// a system message announcing the offer lands in the thread in the same
// transaction and the couple's unread counter goes up by one.
func (s *OfferService) Create(ctx context.Context, in OfferCreateInput, vendorID int64) (*domain.Offer, error) {
	if in.Title == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var total int64
	items := make([]domain.OfferItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Title == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity > maxItemQuantity || it.UnitPrice > maxItemUnitPrice {
			return nil, domain.ErrInvalidInput
		}
		line := int64(it.Quantity) * it.UnitPrice
		total += line
		items = append(items, domain.OfferItem{
			ProductID:   it.ProductID,
			Title:       it.Title,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   line,
			SortOrder:   i,
		})
	}

	offer := &domain.Offer{
		VendorID:       vendorID,
		CoupleID:       in.CoupleID,
		ConversationID: in.ConversationID,
		Title:          in.Title,
		Message:        in.Message,
		Items:          items,
		TotalAmount:    total,
		Status:         domain.OfferPending,
		ValidUntil:     in.ValidUntil,
	}

	var notify *domain.Message
	if in.ConversationID != nil {
		conv, err := s.conversations.GetByID(ctx, *in.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("get conversation: %w", err)
		}
		if conv == nil || conv.VendorID != vendorID || conv.CoupleID != in.CoupleID {
			return nil, domain.ErrNotFound
		}
		body := fmt.Sprintf("Nytt tilbud: %s (%d kr)", offer.Title, offer.TotalAmount)
		notify, err = s.systemMessage(conv.ID, domain.RoleVendor, vendorID, body)
		if err != nil {
			return nil, err
		}
	}

	if err := s.offers.CreateWithItems(ctx, offer, notify); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	return offer, nil
}

// Respond applies the couple's decision. The pending gate is a conditional
// write at the storage layer, so a second response always fails with
// ErrConflict no matter how close the race.
func (s *OfferService) Respond(ctx context.Context, offerID, callerCoupleID int64, decision Decision) (*domain.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	if offer == nil {
		return nil, domain.ErrNotFound
	}
	if offer.CoupleID != callerCoupleID {
		return nil, domain.ErrForbidden
	}
	if offer.Status != domain.OfferPending {
		return nil, domain.ErrConflict
	}

	status := domain.OfferAccepted
	outcome := "akseptert"
	if decision == DecisionDecline {
		status = domain.OfferDeclined
		outcome = "avslått"
	}

	var notify *domain.Message
	if offer.ConversationID != nil {
		body := fmt.Sprintf("Tilbudet «%s» ble %s", offer.Title, outcome)
		notify, err = s.systemMessage(*offer.ConversationID, domain.RoleCouple, callerCoupleID, body)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	applied, err := s.offers.UpdateStatusIfPending(ctx, offerID, status, now, notify)
	if err != nil {
		return nil, fmt.Errorf("update offer status: %w", err)
	}
	if !applied {
		return nil, domain.ErrConflict
	}

	offer.Status = status
	offer.UpdatedAt = now
	if status == domain.OfferAccepted {
		offer.AcceptedAt = &now
	} else {
		offer.DeclinedAt = &now
	}
	return offer, nil
}

// OfferResponse is a read projection with the counterpart's profile summary.
type OfferResponse struct {
	*domain.Offer
	Counterpart *PartySummary `json:"counterpart,omitempty"`
}

// ListForVendor returns the vendor's offers with nested items, newest first.
func (s *OfferService) ListForVendor(ctx context.Context, vendorID int64) ([]*OfferResponse, error) {
	offers, err := s.offers.ListForVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return s.enrich(ctx, offers, domain.RoleVendor), nil
}

// ListForCouple returns the couple's offers with nested items, newest first.
func (s *OfferService) ListForCouple(ctx context.Context, coupleID int64) ([]*OfferResponse, error) {
	offers, err := s.offers.ListForCouple(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return s.enrich(ctx, offers, domain.RoleCouple), nil
}

func (s *OfferService) enrich(ctx context.Context, offers []*domain.Offer, viewer domain.Role) []*OfferResponse {
	res := make([]*OfferResponse, 0, len(offers))
	for _, o := range offers {
		counterpartID := o.CoupleID
		if viewer == domain.RoleCouple {
			counterpartID = o.VendorID
		}
		resp := &OfferResponse{Offer: o}
		if p, err := s.parties.GetByID(ctx, counterpartID); err == nil && p != nil {
			resp.Counterpart = &PartySummary{ID: p.ID, DisplayName: p.DisplayName, Email: p.Email}
		}
		res = append(res, resp)
	}
	return res
}

func (s *OfferService) systemMessage(conversationID int64, sender domain.Role, senderID int64, body string) (*domain.Message, error) {
	encrypted, err := s.encryptor.Encrypt(body)
	if err != nil {
		return nil, fmt.Errorf("encrypt system message: %w", err)
	}
	return &domain.Message{
		ConversationID: conversationID,
		SenderRole:     sender,
		SenderID:       senderID,
		Body:           encrypted,
		System:         true,
	}, nil
}
