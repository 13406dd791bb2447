package session

import (
	"context"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
)

// Resolver turns a bearer credential into an authenticated party identity.
// Every conversation, message, offer and reminder operation requires one.
type Resolver struct {
	tokens *security.TokenService
	store  *Store
}

func NewResolver(tokens *security.TokenService, store *Store) *Resolver {
	return &Resolver{tokens: tokens, store: store}
}

// Resolve validates the token and looks up the backing session, returning
// the identity together with the session id so callers that need the id
// (logout) do not parse the token a second time. Any failure (malformed
// token, missing or expired session) is ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (domain.PartyIdentity, string, error) {
	id, err := r.tokens.ParseSessionID(bearer)
	if err != nil {
		return domain.PartyIdentity{}, "", domain.ErrUnauthenticated
	}
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return domain.PartyIdentity{}, "", domain.ErrUnauthenticated
	}
	return domain.PartyIdentity{PartyID: sess.PartyID, Role: sess.Role}, id, nil
}
