// Package models defines the account records persisted by the server.
package models

import (
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/cryptox"
	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an unverified user with a fresh id and a hashed password.
// The email is normalized (trimmed, lower-cased).
func NewUser(email, password string, role Role) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.NewString(),
		Email:     common.NormalizeEmail(email),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with the hash of plain.
func (u *User) SetPassword(plain string) error {
	hash, err := cryptox.HashPassword(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return cryptox.CheckPassword(u.PasswordHash, plain)
}
