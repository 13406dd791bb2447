package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
	"weddingmarket/internal/session"
)

// AuthService handles login and logout. Party registration and approval are
// handled by the marketplace onboarding flow, not here.
type AuthService struct {
	parties  domain.PartyRepository
	sessions *session.Store
	tokens   *security.TokenService
	hash     *security.PasswordHasher
}

func NewAuthService(parties domain.PartyRepository, sessions *session.Store, tokens *security.TokenService, hash *security.PasswordHasher) *AuthService {
	return &AuthService{
		parties:  parties,
		sessions: sessions,
		tokens:   tokens,
		hash:     hash,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenResponse struct {
	AccessToken string
	TokenType   string
	Party       *domain.Party
}

// Login verifies credentials, creates a durable session and returns a bearer
// token bound to it. Bad credentials are reported uniformly.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	party, err := s.parties.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}
	if party == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := s.hash.Verify(in.Password, party.HashedPassword); err != nil {
		return nil, domain.ErrUnauthenticated
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		PartyID:   party.ID,
		Role:      party.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokens.CreateForSession(sess)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Party:       party,
	}, nil
}

// Logout deletes the session backing the given id.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Profile returns the display profile for a party id.
func (s *AuthService) Profile(ctx context.Context, partyID int64) (*domain.Party, error) {
	party, err := s.parties.GetByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, domain.ErrNotFound
	}
	return party, nil
}
