package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/service"
)

type offerItemRequest struct {
	ProductID   *int64 `json:"product_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

type offerCreateRequest struct {
	CoupleID       int64              `json:"couple_id"`
	ConversationID *int64             `json:"conversation_id"`
	Title          string             `json:"title"`
	Message        string             `json:"message"`
	Items          []offerItemRequest `json:"items"`
	ValidUntil     *time.Time         `json:"valid_until"`
}

// handleCreateOffer creates an itemized offer. Vendor only. When attached
// to a conversation a system message announces it in the thread.
func handleCreateOffer(offerSvc *service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := requireRole(r, identity, domain.RoleVendor); err != nil {
			writeError(w, err)
			return
		}
		var req offerCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}
		items := make([]service.OfferItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, service.OfferItemInput{
				ProductID:   it.ProductID,
				Title:       it.Title,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}
		offer, err := offerSvc.Create(r.Context(), service.OfferCreateInput{
			CoupleID:       req.CoupleID,
			ConversationID: req.ConversationID,
			Title:          req.Title,
			Message:        req.Message,
			Items:          items,
			ValidUntil:     req.ValidUntil,
		}, identity.PartyID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, offer)
	}
}

type offerRespondRequest struct {
	Decision string `json:"decision"`
}

// handleRespondOffer applies the couple's accept/decline decision. A second
// response to the same offer fails with 409.
func handleRespondOffer(offerSvc *service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := requireRole(r, identity, domain.RoleCouple); err != nil {
			writeError(w, err)
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
		if err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}
		var req offerRespondRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}
		decision, err := service.ParseDecision(req.Decision)
		if err != nil {
			writeError(w, err)
			return
		}
		offer, err := offerSvc.Respond(r.Context(), id, identity.PartyID, decision)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, offer)
	}
}

// handleListOffers returns the caller's offers with nested items.
func handleListOffers(offerSvc *service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := checkAsParam(r, identity); err != nil {
			writeError(w, err)
			return
		}
		var offers []*service.OfferResponse
		var err error
		if identity.Role == domain.RoleVendor {
			offers, err = offerSvc.ListForVendor(r.Context(), identity.PartyID)
		} else {
			offers, err = offerSvc.ListForCouple(r.Context(), identity.PartyID)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, offers)
	}
}
