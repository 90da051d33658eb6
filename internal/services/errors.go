package services

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized means the session does not resolve to an active admin.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials hides whether the identifier or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	// ErrAccountDeactivated is returned on a correct password for a deactivated account.
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	// ErrAlreadyExists is a unique violation detected by the store at write time.
	ErrAlreadyExists = errors.New("account already exists")
	// ErrSelfAction is returned when an admin targets their own account.
	ErrSelfAction = errors.New("action not allowed on own account")
)

// Transactor runs fn atomically. Repository calls made with the context
// handed to fn take part in the same transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
