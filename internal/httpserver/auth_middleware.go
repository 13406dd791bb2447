package httpserver

import (
	"context"
	"net/http"
	"strings"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/session"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	sessionContextKey  contextKey = "sessionID"
)

// WithIdentity returns a new context carrying the resolved party identity
// and the backing session id.
func WithIdentity(ctx context.Context, identity domain.PartyIdentity, sessionID string) context.Context {
	ctx = context.WithValue(ctx, identityContextKey, identity)
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// CurrentIdentity extracts the resolved identity from the request context.
func CurrentIdentity(r *http.Request) (domain.PartyIdentity, bool) {
	v, ok := r.Context().Value(identityContextKey).(domain.PartyIdentity)
	return v, ok
}

// CurrentSessionID extracts the backing session id, for logout.
func CurrentSessionID(r *http.Request) string {
	if v, ok := r.Context().Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

// AuthMiddleware validates the Bearer token through the session resolver and
// attaches the party identity to the context.
func AuthMiddleware(resolver *session.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, ok := bearerToken(r)
			if !ok {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			identity, sessionID, err := resolver.Resolve(r.Context(), bearer)
			if err != nil {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			ctx := WithIdentity(r.Context(), identity, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(authHeader[len("Bearer "):]), true
}

// requireRole checks that the caller acts in the expected role. The optional
// ?as= parameter must agree with the session's role when supplied.
func requireRole(r *http.Request, identity domain.PartyIdentity, want domain.Role) error {
	if identity.Role != want {
		return domain.ErrForbidden
	}
	return checkAsParam(r, identity)
}

// checkAsParam validates the ?as= query parameter against the session role.
func checkAsParam(r *http.Request, identity domain.PartyIdentity) error {
	as := r.URL.Query().Get("as")
	if as == "" {
		return nil
	}
	role, err := domain.ParseRole(as)
	if err != nil {
		return domain.ErrInvalidInput
	}
	if role != identity.Role {
		return domain.ErrForbidden
	}
	return nil
}
