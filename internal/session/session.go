package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when no live record exists for a key.
var ErrNotFound = errors.New("session not found")

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Data is the server-side state attached to a session token.
// IsAdmin and Initial are cached at login for navigation rendering only.
type Data struct {
	UserID   int     `json:"user_id"`
	Username string  `json:"username"`
	IsAdmin  bool    `json:"is_admin"`
	Initial  string  `json:"initial"`
	Flashes  []Flash `json:"flashes,omitempty"`
}

// Store persists session data keyed by the hash of the session token.
type Store interface {
	Get(ctx context.Context, key string) (Data, error)
	Set(ctx context.Context, key string, data Data, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
}

// Session is the request-scoped view of a stored session.
type Session struct {
	key       string
	Data      Data
	ExpiresAt time.Time
	dirty     bool
}

// New builds a session for an existing storage key. It is mostly useful in tests.
func New(key string, data Data, expiresAt time.Time) *Session {
	return &Session{key: key, Data: data, ExpiresAt: expiresAt}
}

// Key returns the storage key (the token hash).
func (s *Session) Key() string {
	return s.key
}

func (s *Session) UserID() int {
	if s == nil {
		return 0
	}
	return s.Data.UserID
}

// AddFlash queues a notice for the next page render.
func (s *Session) AddFlash(category, message string) {
	s.Data.Flashes = append(s.Data.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns and clears the queued notices.
func (s *Session) PopFlashes() []Flash {
	if s == nil || len(s.Data.Flashes) == 0 {
		return nil
	}
	flashes := s.Data.Flashes
	s.Data.Flashes = nil
	s.dirty = true
	return flashes
}

// SetUsername refreshes the cached username and initial after a profile edit.
func (s *Session) SetUsername(username, initial string) {
	s.Data.Username = username
	s.Data.Initial = initial
	s.dirty = true
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request session, or nil for anonymous requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
