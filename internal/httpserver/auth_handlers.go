package httpserver

import (
	"encoding/json"
	"net/http"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	Party       *domain.Party `json:"party"`
}

// handleLogin authenticates a party and opens a session.
func handleLogin(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrInvalidInput)
			return
		}

		resp, err := authSvc.Login(r.Context(), service.LoginInput{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken: resp.AccessToken,
			TokenType:   resp.TokenType,
			Party:       resp.Party,
		})
	}
}

// handleLogout closes the caller's session.
func handleLogout(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := CurrentSessionID(r)
		if sessionID == "" {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		if err := authSvc.Logout(r.Context(), sessionID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleMe returns the authenticated party's profile.
func handleMe(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentIdentity(r)
		if !ok {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		party, err := authSvc.Profile(r.Context(), identity.PartyID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, party)
	}
}
