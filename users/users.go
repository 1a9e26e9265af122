package users

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 6

// User is a student account. Email is the natural key and is stored
// exactly as supplied (no case normalization).
type User struct {
	ID           string    `json:"id,omitempty"`    // Unique identifier for the user
	Email        string    `json:"email,omitempty"` // User's email address, unique across all users
	Name         string    `json:"name,omitempty"`  // Display name (given name for Google accounts)
	PasswordHash string    `json:"-"`               // Hashed password - never serialize; empty for Google-only accounts
	Verified     bool      `json:"verified,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// ValidatePasswordStrength checks the signup password against the minimum
// length requirement.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash. It returns false
// for an empty hash, so accounts created via Google login (which carry no
// password material) can never pass a password check.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HasPassword reports whether the user can log in with a password at all.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
