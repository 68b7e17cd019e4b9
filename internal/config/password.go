package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBcryptCost = 12
	minBcryptCost     = 10
	maxBcryptCost     = 14
)

// ErrPasswordTooLong is returned when the password plus pepper exceeds what bcrypt accepts.
var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // appended to every password before hashing
}

// NewPasswordConfig builds a password configuration from loaded settings.
// A zero cost means the default of 12.
func NewPasswordConfig(s PasswordSettings) (*PasswordConfig, error) {
	cost := s.BcryptCost
	if cost == 0 {
		cost = defaultBcryptCost
	}
	if cost < minBcryptCost || cost > maxBcryptCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", cost, minBcryptCost, maxBcryptCost)
	}
	return &PasswordConfig{BcryptCost: cost, Pepper: s.Pepper}, nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword returns the bcrypt hash of the peppered password.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
