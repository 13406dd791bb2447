package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
)

func TestEncryptor(t *testing.T) {
	enc, err := security.NewEncryptor([]byte("any-length-secret"))
	assert.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		cipher, err := enc.Encrypt("Hei, er dere ledige?")
		assert.NoError(t, err)
		assert.NotEqual(t, "Hei, er dere ledige?", cipher)

		plain, err := enc.Decrypt(cipher)
		assert.NoError(t, err)
		assert.Equal(t, "Hei, er dere ledige?", plain)
	})

	t.Run("WrongKeyFails", func(t *testing.T) {
		other, _ := security.NewEncryptor([]byte("different-secret"))
		cipher, _ := enc.Encrypt("hemmelig")

		_, err := other.Decrypt(cipher)
		assert.Error(t, err)
	})

	t.Run("GarbageFails", func(t *testing.T) {
		_, err := enc.Decrypt("not base64 at all!!!")
		assert.Error(t, err)
	})

	t.Run("EmptyKeyRejected", func(t *testing.T) {
		_, err := security.NewEncryptor(nil)
		assert.Error(t, err)
	})
}

func TestTokenService(t *testing.T) {
	tokens := security.NewTokenService("secret", time.Hour)

	t.Run("RoundTrip", func(t *testing.T) {
		now := time.Now()
		sess := &domain.Session{
			ID:        "sess-1",
			PartyID:   7,
			Role:      domain.RoleCouple,
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
		token, err := tokens.CreateForSession(sess)
		assert.NoError(t, err)

		id, err := tokens.ParseSessionID(token)
		assert.NoError(t, err)
		assert.Equal(t, "sess-1", id)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		now := time.Now()
		sess := &domain.Session{
			ID:        "sess-2",
			PartyID:   7,
			Role:      domain.RoleCouple,
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}
		token, err := tokens.CreateForSession(sess)
		assert.NoError(t, err)

		_, err = tokens.ParseSessionID(token)
		assert.Error(t, err)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		other := security.NewTokenService("other", time.Hour)
		sess := &domain.Session{ID: "sess-3", ExpiresAt: time.Now().Add(time.Hour)}
		token, _ := other.CreateForSession(sess)

		_, err := tokens.ParseSessionID(token)
		assert.Error(t, err)
	})
}

func TestPasswordHasher(t *testing.T) {
	h := security.NewPasswordHasher(4)

	hashed, err := h.Hash("Password1!")
	assert.NoError(t, err)
	assert.NoError(t, h.Verify("Password1!", hashed))
	assert.Error(t, h.Verify("wrong", hashed))
}
