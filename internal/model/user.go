package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// User represents an account. Credentials are opaque to the matching core.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
	RoleAdmin     = "admin"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleDonor, RoleRecipient, RoleAdmin:
		return true
	}
	return false
}

// SelfServiceRole reports whether role may be chosen at registration.
// Admins are only created at bootstrap or promoted by another admin.
func SelfServiceRole(role string) bool {
	return role == RoleDonor || role == RoleRecipient
}

// ValidatePassword checks password strength: a minimum length plus at least
// one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !digit {
		return fmt.Errorf("password must contain at least one number")
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address (no display name).
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
