package security

import "golang.org/x/crypto/bcrypt"

// PasswordHasher checks party credentials at login. Verify is the hot path;
// Hash exists for provisioning scripts and test fixtures, since party
// accounts are created outside this service.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a bcrypt hash suitable for storing in parties.password_hash.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a login attempt against the stored hash.
func (h *PasswordHasher) Verify(plain, hashed string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
