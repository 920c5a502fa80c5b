// Package auth provides password hashing and credential checks.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/acastaldi/pedit/internal/model"
)

// ErrInvalidCredentials is returned when a password check fails or the
// account is disabled. Callers get no detail about which, on purpose.
var ErrInvalidCredentials = errors.New("invalid email or password")

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks a plaintext password against a user's stored hash. Inactive
// users always fail.
func Verify(user model.User, password string) error {
	if !user.Active {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
