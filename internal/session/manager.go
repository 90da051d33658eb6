package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// CookieName is the name of the session cookie.
const CookieName = "portfolio_session"

const tokenBytes = 32

// Manager issues, loads and clears sessions. The cookie holds an HS256 token
// whose ID is the opaque session token; the store only ever sees its hash.
type Manager struct {
	store  Store
	secret []byte
	secure bool
	ttl    time.Duration
}

func NewManager(store Store, secret string, secure bool, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		secure: secure,
		ttl:    ttl,
	}
}

// Middleware loads the session named by the request cookie into the context.
// Invalid or expired cookies are cleared and the request continues anonymously.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		s, err := m.load(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Warn().Err(err).Msg("session lookup failed")
			}
			m.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// Start issues a fresh session for data, replacing any session already on ctx.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, data Data) (*Session, error) {
	if existing := FromContext(ctx); existing != nil {
		if err := m.store.Delete(ctx, existing.key); err != nil {
			return nil, err
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(m.ttl)
	s := &Session{key: hashToken(token), Data: data, ExpiresAt: expiresAt}
	if err := m.store.Set(ctx, s.key, s.Data, s.ExpiresAt); err != nil {
		return nil, err
	}

	signed, err := m.sign(token, expiresAt)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Save persists pending changes such as queued flashes.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil || !s.dirty {
		return nil
	}
	if err := m.store.Set(ctx, s.key, s.Data, s.ExpiresAt); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Destroy removes the session record and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	m.clearCookie(w)
	if s == nil {
		return nil
	}
	return m.store.Delete(ctx, s.key)
}

func (m *Manager) load(ctx context.Context, cookieValue string) (*Session, error) {
	token, expiresAt, err := m.parse(cookieValue)
	if err != nil {
		return nil, ErrNotFound
	}
	key := hashToken(token)
	data, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Session{key: key, Data: data, ExpiresAt: expiresAt}, nil
}

func (m *Manager) sign(token string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        token,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parse(value string) (string, time.Time, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", time.Time{}, err
	}
	if !token.Valid || strings.TrimSpace(claims.ID) == "" {
		return "", time.Time{}, errors.New("invalid session token")
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.ID, expiresAt, nil
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
