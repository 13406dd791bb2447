package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/service"
)

// handleListReminders returns the vendor's pending reminders, soonest first.
func handleListReminders(remSvc *service.ReminderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := requireRole(r, identity, domain.RoleVendor); err != nil {
			writeError(w, err)
			return
		}
		reminders, err := remSvc.ListPending(r.Context(), identity.PartyID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reminders)
	}
}

// handleCancelReminder cancels a pending reminder the vendor owns.
func handleCancelReminder(remSvc *service.ReminderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := CurrentIdentity(r)
		if err := requireRole(r, identity, domain.RoleVendor); err != nil {
			writeError(w, err)
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "reminderID"), 10, 64)
		if err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}
		if err := remSvc.Cancel(r.Context(), id, identity.PartyID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}
