package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
	"weddingmarket/internal/service"
	"weddingmarket/internal/session"
)

func newAuthService(parties *MockPartyRepo, sessionRepo *MockSessionRepo) (*service.AuthService, *security.PasswordHasher) {
	tokenSvc := security.NewTokenService("secret", time.Hour)
	hasher := security.NewPasswordHasher(4) // low cost for tests
	sessions := session.NewStore(sessionRepo, session.NewCache(16))
	return service.NewAuthService(parties, sessions, tokenSvc, hasher), hasher
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		parties := new(MockPartyRepo)
		sessionRepo := new(MockSessionRepo)
		svc, hasher := newAuthService(parties, sessionRepo)

		hashed, _ := hasher.Hash("Password1!")
		vendor := &domain.Party{
			ID:             7,
			Role:           domain.RoleVendor,
			DisplayName:    "Fotograf Nordlys",
			Email:          "post@nordlysfoto.no",
			HashedPassword: hashed,
		}
		parties.On("GetByEmail", mock.Anything, vendor.Email).Return(vendor, nil)
		sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
			return s.PartyID == vendor.ID && s.Role == domain.RoleVendor && s.ID != ""
		})).Return(nil)

		res, err := svc.Login(context.Background(), service.LoginInput{
			Email:    vendor.Email,
			Password: "Password1!",
		})
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.NotEmpty(t, res.AccessToken)
		assert.Equal(t, "bearer", res.TokenType)
		assert.Equal(t, vendor.ID, res.Party.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		parties := new(MockPartyRepo)
		sessionRepo := new(MockSessionRepo)
		svc, hasher := newAuthService(parties, sessionRepo)

		hashed, _ := hasher.Hash("Password1!")
		party := &domain.Party{ID: 7, Role: domain.RoleVendor, Email: "post@nordlysfoto.no", HashedPassword: hashed}
		parties.On("GetByEmail", mock.Anything, party.Email).Return(party, nil)

		res, err := svc.Login(context.Background(), service.LoginInput{Email: party.Email, Password: "wrong"})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		parties := new(MockPartyRepo)
		sessionRepo := new(MockSessionRepo)
		svc, _ := newAuthService(parties, sessionRepo)

		parties.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		res, err := svc.Login(context.Background(), service.LoginInput{Email: "nobody@example.com", Password: "x"})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("MissingFields", func(t *testing.T) {
		parties := new(MockPartyRepo)
		sessionRepo := new(MockSessionRepo)
		svc, _ := newAuthService(parties, sessionRepo)

		res, err := svc.Login(context.Background(), service.LoginInput{Email: "", Password: ""})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestLogout(t *testing.T) {
	parties := new(MockPartyRepo)
	sessionRepo := new(MockSessionRepo)
	svc, _ := newAuthService(parties, sessionRepo)

	sessionRepo.On("Delete", mock.Anything, "sess-1").Return(nil)

	err := svc.Logout(context.Background(), "sess-1")
	assert.NoError(t, err)
	sessionRepo.AssertCalled(t, "Delete", mock.Anything, "sess-1")
}
