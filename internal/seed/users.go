package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio/config"
	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/types"
)

// ErrNoUsers is returned when the environment names no accounts to seed.
var ErrNoUsers = errors.New("no users found in env vars; set USERS_SEED_JSON or USER1_/USER2_ variables")

// flexBool accepts JSON booleans as well as strings such as "yes" or "1".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*b = false
	case bool:
		*b = flexBool(val)
	case string:
		*b = flexBool(config.ParseBool(val))
	case float64:
		*b = val != 0
	default:
		return fmt.Errorf("cannot use %s as a boolean", data)
	}
	return nil
}

// UserSpec is one account to create or update.
type UserSpec struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	IsAdmin  flexBool `json:"is_admin"`
}

// LoadUserSpecs reads USERS_SEED_JSON and the USER1_* / USER2_* variables.
func LoadUserSpecs(getenv func(string) string) ([]UserSpec, error) {
	var specs []UserSpec

	if raw := strings.TrimSpace(getenv("USERS_SEED_JSON")); raw != "" {
		var fromJSON []UserSpec
		if err := json.Unmarshal([]byte(raw), &fromJSON); err != nil {
			return nil, fmt.Errorf("invalid USERS_SEED_JSON: %w", err)
		}
		specs = append(specs, fromJSON...)
	}

	for i := 1; i <= 2; i++ {
		prefix := fmt.Sprintf("USER%d_", i)
		name := getenv(prefix + "NAME")
		email := getenv(prefix + "EMAIL")
		password := getenv(prefix + "PASSWORD")
		isAdmin := getenv(prefix + "IS_ADMIN")
		if name == "" && email == "" && password == "" && isAdmin == "" {
			continue
		}
		specs = append(specs, UserSpec{
			Name:     name,
			Email:    email,
			Password: password,
			IsAdmin:  flexBool(config.ParseBool(isAdmin)),
		})
	}

	if len(specs) == 0 {
		return nil, ErrNoUsers
	}
	return specs, nil
}

// UserOutcome records what happened to a seed entry that did not create a user.
type UserOutcome struct {
	Email  string
	Status string
}

// UserResult summarises a seeding run.
type UserResult struct {
	Created []string
	Updated []UserOutcome
}

// UserSeeder creates the bootstrap accounts.
type UserSeeder struct {
	users services.UserRepository
	auth  *services.AuthService
	tx    Transactor
}

func NewUserSeeder(users services.UserRepository, tx Transactor) *UserSeeder {
	return &UserSeeder{users: users, auth: services.NewAuthService(users, tx), tx: tx}
}

// Seed creates missing users and syncs the admin flag of existing ones.
// The whole batch commits or rolls back together.
func (s *UserSeeder) Seed(ctx context.Context, specs []UserSpec) (UserResult, error) {
	var res UserResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		res = UserResult{}
		for _, spec := range specs {
			email := strings.ToLower(strings.TrimSpace(spec.Email))
			isAdmin := bool(spec.IsAdmin)
			if email == "" || spec.Password == "" {
				if email == "" {
					email = "<missing email>"
				}
				res.Updated = append(res.Updated, UserOutcome{Email: email, Status: "skipped (missing email/password)"})
				continue
			}

			existing, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil:
				if existing.IsAdmin == isAdmin {
					res.Updated = append(res.Updated, UserOutcome{Email: email, Status: "exists"})
					continue
				}
				existing.IsAdmin = isAdmin
				if _, err := s.users.Update(ctx, existing); err != nil {
					return fmt.Errorf("update %s: %w", email, err)
				}
				res.Updated = append(res.Updated, UserOutcome{Email: email, Status: "admin updated"})
				continue
			case !errors.Is(err, store.ErrNotFound):
				return fmt.Errorf("lookup %s: %w", email, err)
			}

			user, err := s.newUser(ctx, spec, email, isAdmin)
			if err != nil {
				return err
			}
			if _, err := s.users.Create(ctx, user); err != nil {
				return fmt.Errorf("create %s: %w", email, err)
			}
			res.Created = append(res.Created, email)
		}
		return nil
	})
	if err != nil {
		return UserResult{}, err
	}
	return res, nil
}

func (s *UserSeeder) newUser(ctx context.Context, spec UserSpec, email string, isAdmin bool) (types.User, error) {
	username, err := s.auth.GenerateUsername(ctx, email)
	if err != nil {
		return types.User{}, fmt.Errorf("username for %s: %w", email, err)
	}
	hash, err := services.HashPassword(spec.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password for %s: %w", email, err)
	}

	user := types.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    types.Now(),
		IsActive:     true,
		IsAdmin:      isAdmin,
	}
	if parts := strings.Fields(spec.Name); len(parts) > 0 {
		user.FirstName = parts[0]
		user.LastName = strings.Join(parts[1:], " ")
	}
	return user, nil
}
