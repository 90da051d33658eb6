package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/internal/validate"
	"github.com/folioworks/portfolio/types"
	"golang.org/x/crypto/bcrypt"
)

const maxUsernameAttempts = 10000

// dummyHash keeps failed lookups as slow as failed password checks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-dummy-password"), bcrypt.DefaultCost)

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// UsernameCheck is the answer of an availability probe.
type UsernameCheck struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// AuthService covers signup, login and session to user resolution.
type AuthService struct {
	users UserRepository
	tx    Transactor
}

func NewAuthService(users UserRepository, tx Transactor) *AuthService {
	return &AuthService{users: users, tx: tx}
}

// Signup validates the form, then creates the account with a derived username.
func (s *AuthService) Signup(ctx context.Context, in validate.SignupInput) (types.User, error) {
	if err := validate.Signup(in); err != nil {
		return types.User{}, err
	}
	email := validate.NormalizeEmail(in.Email)

	hash, err := HashPassword(in.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	var user types.User
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		username, err := s.GenerateUsername(ctx, email)
		if err != nil {
			return err
		}

		user, err = s.users.Create(ctx, types.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    types.Now(),
			IsActive:     true,
		})
		return err
	})
	if errors.Is(err, store.ErrConflict) {
		return types.User{}, ErrAlreadyExists
	}
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}

// GenerateUsername returns the first free name among base, base1, base2, ...
func (s *AuthService) GenerateUsername(ctx context.Context, email string) (string, error) {
	base := validate.UsernameBase(email)
	candidate := base
	for i := 1; i <= maxUsernameAttempts; i++ {
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free username for base %q", base)
}

// Login resolves identifier as a username or an email and checks the password.
// Unknown identifiers and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (types.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return types.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, validate.NormalizeUsername(identifier))
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.users.GetByEmail(ctx, validate.NormalizeEmail(identifier))
	}
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return types.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return types.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return types.User{}, ErrAccountDeactivated
	}
	return user, nil
}

// SessionData builds the cached session payload for a freshly logged-in user.
func SessionData(user types.User) session.Data {
	return session.Data{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		Initial:  user.Initial(),
	}
}

// CurrentUser resolves the session to an active user. It returns nil when the
// request is anonymous or the user was deleted or deactivated.
func (s *AuthService) CurrentUser(ctx context.Context, sess *session.Session) (*types.User, error) {
	if sess.UserID() == 0 {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, sess.UserID())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	return &user, nil
}

// RequireAdmin re-reads the user on every call so a demotion takes effect
// immediately.
func (s *AuthService) RequireAdmin(ctx context.Context, sess *session.Session) (types.User, error) {
	user, err := s.CurrentUser(ctx, sess)
	if err != nil {
		return types.User{}, err
	}
	if user == nil || !user.IsAdmin {
		return types.User{}, ErrUnauthorized
	}
	return *user, nil
}

// CheckUsername reports whether a username could be taken by the session owner.
func (s *AuthService) CheckUsername(ctx context.Context, raw string, sess *session.Session) (UsernameCheck, error) {
	username := validate.NormalizeUsername(raw)
	if err := validate.Username(username); err != nil {
		return UsernameCheck{Available: false, Message: err.Error()}, nil
	}

	current, err := s.CurrentUser(ctx, sess)
	if err != nil {
		return UsernameCheck{}, err
	}
	if current != nil && current.Username == username {
		return UsernameCheck{Available: true, Message: "This is your current username"}, nil
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return UsernameCheck{}, err
	}
	if taken {
		return UsernameCheck{Available: false, Message: "Username is already taken"}, nil
	}
	return UsernameCheck{Available: true, Message: "Username is available!"}, nil
}
