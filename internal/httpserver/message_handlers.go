package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/service"
)

type messageSendRequest struct {
	ConversationID  *int64 `json:"conversation_id"`
	VendorID        *int64 `json:"vendor_id"`
	CoupleID        *int64 `json:"couple_id"`
	OriginInquiryID *int64 `json:"origin_inquiry_id"`
	Body            string `json:"body"`
}

// handleSendMessage appends a message. Without a conversation id the
// counterpart id starts a first-contact thread.
func handleSendMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		var req messageSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}

		counterpart := req.VendorID
		if identity.Role == domain.RoleVendor {
			counterpart = req.CoupleID
		}
		msg, err := msgSvc.Send(r.Context(), service.SendInput{
			ConversationID:  req.ConversationID,
			CounterpartID:   counterpart,
			OriginInquiryID: req.OriginInquiryID,
			Body:            req.Body,
		}, identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// handleListMessages returns a thread in chronological order. Reading marks
// the counterpart's messages read and zeroes the caller's unread counter.
func handleListMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := checkAsParam(r, identity); err != nil {
			writeError(w, err)
			return
		}
		id, err := conversationID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		msgs, err := msgSvc.List(r.Context(), id, identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

// handleDeleteMessage hides one message from the caller. Idempotent.
func handleDeleteMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := checkAsParam(r, identity); err != nil {
			writeError(w, err)
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
		if err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}
		if err := msgSvc.SoftDelete(r.Context(), id, identity); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
