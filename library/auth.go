package library

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when a password does not match.
var ErrBadCredentials = errors.New("invalid credentials")

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate verifies the member's password. Lookup failures propagate as
// NotFoundError; a mismatch returns ErrBadCredentials.
func (m *Members) Authenticate(email, password string) error {
	member, err := m.Get(email)
	if err != nil {
		return err
	}
	if member.PasswordHash == "" {
		return fmt.Errorf("member %s has no password set", email)
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return ErrBadCredentials
	}
	return nil
}

// ResetPassword replaces the member's password hash.
func (m *Members) ResetPassword(email, password string) error {
	member, err := m.Get(email)
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	member.PasswordHash = hash
	return m.store.SaveMember(member)
}
