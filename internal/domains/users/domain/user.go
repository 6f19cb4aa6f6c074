package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
)

// User is a storefront account. PasswordHash holds a bcrypt hash, never
// the raw password.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Admin        bool
}

// NewUser builds a user ensuring required invariants.
func NewUser(id int64, username, passwordHash string) (*User, error) {
	user := &User{ID: id, PasswordHash: passwordHash}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// ValidatePassword enforces the registration password policy on the raw
// password before it is hashed.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return ErrEmptyPassword
	}
	return nil
}
