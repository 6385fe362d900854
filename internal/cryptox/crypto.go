// Package cryptox hashes and verifies account credentials.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eatery/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces bcrypt password hashes with a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plain. Empty passwords are rejected
// with common.ErrEmptyPassword.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", common.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Check reports whether plain matches hash.
func (h *Hasher) Check(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// malformed hash, treat as mismatch
		return false
	}
	return err == nil
}

var defaultHasher = NewHasher(bcrypt.DefaultCost)

// HashPassword hashes plain with bcrypt.DefaultCost.
func HashPassword(plain string) (string, error) {
	return defaultHasher.Hash(plain)
}

// CheckPassword reports whether plain matches a hash made by HashPassword.
func CheckPassword(hash, plain string) bool {
	return defaultHasher.Check(hash, plain)
}
