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

func conversationID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

// handleListConversations returns the caller's threads, most recent first,
// each with the counterpart profile and last visible message.
func handleListConversations(convSvc *service.ConversationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := checkAsParam(r, identity); err != nil {
			writeError(w, err)
			return
		}
		convs, err := convSvc.ListFor(r.Context(), identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

// handleGetConversation returns one thread with the derived
// counterpart-seen timestamp.
func handleGetConversation(convSvc *service.ConversationService) http.HandlerFunc {
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
		conv, err := convSvc.Get(r.Context(), id, identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conv)
	}
}

type markReadRequest struct {
	Role string `json:"role"`
}

// handleMarkConversationRead zeroes the caller's unread counter.
func handleMarkConversationRead(convSvc *service.ConversationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		id, err := conversationID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req markReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Role != "" {
			role, err := domain.ParseRole(req.Role)
			if err != nil {
				writeError(w, err)
				return
			}
			if role != identity.Role {
				writeError(w, domain.ErrForbidden)
				return
			}
		}
		if err := convSvc.MarkRead(r.Context(), id, identity); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

// handleDeleteConversation hides the thread and its messages from the
// caller. Idempotent.
func handleDeleteConversation(convSvc *service.ConversationService) http.HandlerFunc {
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
		if err := convSvc.SoftDelete(r.Context(), id, identity); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type scheduleReminderRequest struct {
	ReminderType string    `json:"reminder_type"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// handleScheduleReminder records an anti-ghosting nudge. Vendor only.
func handleScheduleReminder(remSvc *service.ReminderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := requireRole(r, identity, domain.RoleVendor); err != nil {
			writeError(w, err)
			return
		}
		id, err := conversationID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req scheduleReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}
		typ, err := domain.ParseReminderType(req.ReminderType)
		if err != nil {
			writeError(w, err)
			return
		}
		rem, err := remSvc.Schedule(r.Context(), id, identity.PartyID, typ, req.ScheduledFor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rem)
	}
}
