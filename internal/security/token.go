package security

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weddingmarket/internal/domain"
)

// TokenService wraps JWT creation and validation. The token's jti claim is
// the id of the durable session row; the token alone never authenticates.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// TTL returns the default token lifetime.
func (t *TokenService) TTL() time.Duration {
	return t.expiresIn
}

// CreateForSession creates a JWT bound to the given session.
func (t *TokenService) CreateForSession(s *domain.Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":  s.ID,
		"sub":  strconv.FormatInt(s.PartyID, 10),
		"role": string(s.Role),
		"iat":  now.Unix(),
		"exp":  s.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseSessionID validates a token and returns the session id it carries.
func (t *TokenService) ParseSessionID(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", jwt.ErrTokenMalformed
	}
	return jti, nil
}
