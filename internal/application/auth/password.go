package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashea y verifica contraseñas con bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher construye el hasher; cost 0 usa bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash devuelve el hash bcrypt de plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify indica si plain corresponde a hash.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
