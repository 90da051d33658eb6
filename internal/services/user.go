package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/internal/validate"
	"github.com/folioworks/portfolio/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]types.User, error)
	ListRecent(ctx context.Context, limit int) ([]types.User, error)
	Count(ctx context.Context) (int, error)
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Username         *string
	FirstName        *string
	LastName         *string
	Bio              *string
	Location         *string
	Website          *string
	GitHubUsername   *string
	LinkedInUsername *string
	TwitterUsername  *string
}

// UserService encapsulates profile and account lookup use-cases.
type UserService struct {
	repo UserRepository
	tx   Transactor
}

func NewUserService(repo UserRepository, tx Transactor) *UserService {
	return &UserService{repo: repo, tx: tx}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// FindByIdentifier resolves a username or an email address.
func (s *UserService) FindByIdentifier(ctx context.Context, identifier string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, validate.NormalizeUsername(identifier))
	if errors.Is(err, store.ErrNotFound) {
		return s.repo.GetByEmail(ctx, validate.NormalizeEmail(identifier))
	}
	return user, err
}

// Promote grants admin rights to the user named by identifier. The boolean is
// true when the user already was an admin.
func (s *UserService) Promote(ctx context.Context, identifier string) (types.User, bool, error) {
	var (
		user    types.User
		already bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.FindByIdentifier(ctx, identifier)
		if err != nil {
			return err
		}
		if user.IsAdmin {
			already = true
			return nil
		}
		user.IsAdmin = true
		user, err = s.repo.Update(ctx, user)
		return err
	})
	if err != nil {
		return types.User{}, false, err
	}
	return user, already, nil
}

// UpdateProfile applies a partial update. A username change is validated and
// checked for availability, and field lengths are checked, before anything is
// written.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (types.User, error) {
	var user types.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if upd.Username != nil {
			username := validate.NormalizeUsername(*upd.Username)
			if username != user.Username {
				if err := validate.Username(username); err != nil {
					return err
				}
				taken, err := s.repo.UsernameExists(ctx, username)
				if err != nil {
					return err
				}
				if taken {
					return ErrUsernameTaken
				}
				user.Username = username
			}
		}

		applyTrimmed(&user.FirstName, upd.FirstName)
		applyTrimmed(&user.LastName, upd.LastName)
		applyTrimmed(&user.Bio, upd.Bio)
		applyTrimmed(&user.Location, upd.Location)
		applyTrimmed(&user.Website, upd.Website)
		applyTrimmed(&user.GitHubUsername, upd.GitHubUsername)
		applyTrimmed(&user.LinkedInUsername, upd.LinkedInUsername)
		applyTrimmed(&user.TwitterUsername, upd.TwitterUsername)
		if err := validate.Profile(validate.ProfileInput{
			FirstName:        user.FirstName,
			LastName:         user.LastName,
			Location:         user.Location,
			Website:          user.Website,
			GitHubUsername:   user.GitHubUsername,
			LinkedInUsername: user.LinkedInUsername,
			TwitterUsername:  user.TwitterUsername,
		}); err != nil {
			return err
		}

		user, err = s.repo.Update(ctx, user)
		if errors.Is(err, store.ErrConflict) {
			return ErrUsernameTaken
		}
		return err
	})
	if err != nil {
		return types.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func applyTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}
