package services

import (
	"context"

	"github.com/folioworks/portfolio/types"
)

const dashboardRecentUsers = 5

// Dashboard aggregates the admin landing page numbers.
type Dashboard struct {
	Users           int
	Projects        int
	Posts           int
	Videos          int
	Messages        int
	UnreadMessages  int
	Feedback        int
	PendingFeedback int
	RecentUsers     []types.User
}

// AdminService implements moderation. Callers must have passed RequireAdmin.
type AdminService struct {
	users    UserRepository
	projects ProjectRepository
	posts    PostRepository
	videos   VideoRepository
	contacts ContactRepository
	feedback FeedbackRepository
	tx       Transactor
}

func NewAdminService(
	users UserRepository,
	projects ProjectRepository,
	posts PostRepository,
	videos VideoRepository,
	contacts ContactRepository,
	feedback FeedbackRepository,
	tx Transactor,
) *AdminService {
	return &AdminService{
		users:    users,
		projects: projects,
		posts:    posts,
		videos:   videos,
		contacts: contacts,
		feedback: feedback,
		tx:       tx,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	counters := []struct {
		dst *int
		fn  func(context.Context) (int, error)
	}{
		{&d.Users, s.users.Count},
		{&d.Projects, s.projects.Count},
		{&d.Posts, s.posts.Count},
		{&d.Videos, s.videos.Count},
		{&d.Messages, s.contacts.Count},
		{&d.UnreadMessages, s.contacts.CountUnread},
		{&d.Feedback, s.feedback.Count},
		{&d.PendingFeedback, s.feedback.CountPending},
	}
	for _, c := range counters {
		n, err := c.fn(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		*c.dst = n
	}

	recent, err := s.users.ListRecent(ctx, dashboardRecentUsers)
	if err != nil {
		return Dashboard{}, err
	}
	d.RecentUsers = recent
	return d, nil
}

func (s *AdminService) Users(ctx context.Context) ([]types.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) Messages(ctx context.Context) ([]types.ContactMessage, error) {
	return s.contacts.List(ctx)
}

func (s *AdminService) Feedback(ctx context.Context) ([]types.Feedback, error) {
	return s.feedback.List(ctx)
}

func (s *AdminService) ApproveFeedback(ctx context.Context, id int) error {
	return s.feedback.SetApproved(ctx, id, true)
}

func (s *AdminService) HideFeedback(ctx context.Context, id int) error {
	return s.feedback.SetApproved(ctx, id, false)
}

func (s *AdminService) DeleteFeedback(ctx context.Context, id int) error {
	return s.feedback.Delete(ctx, id)
}

func (s *AdminService) MarkMessageRead(ctx context.Context, id int) error {
	return s.contacts.MarkRead(ctx, id)
}

func (s *AdminService) DeleteMessage(ctx context.Context, id int) error {
	return s.contacts.Delete(ctx, id)
}

// MakeAdmin promotes the user. The boolean is true when nothing changed.
func (s *AdminService) MakeAdmin(ctx context.Context, id int) (types.User, bool, error) {
	var (
		user    types.User
		already bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user.IsAdmin {
			already = true
			return nil
		}
		user.IsAdmin = true
		user, err = s.users.Update(ctx, user)
		return err
	})
	if err != nil {
		return types.User{}, false, err
	}
	return user, already, nil
}

// DeleteUser removes the target account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, admin types.User, id int) (types.User, error) {
	if id == admin.ID {
		return types.User{}, ErrSelfAction
	}
	var target types.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return types.User{}, err
	}
	return target, nil
}

// ToggleUserStatus flips is_active on the target. Admins cannot deactivate themselves.
func (s *AdminService) ToggleUserStatus(ctx context.Context, admin types.User, id int) (types.User, error) {
	if id == admin.ID {
		return types.User{}, ErrSelfAction
	}
	var target types.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		target.IsActive = !target.IsActive
		target, err = s.users.Update(ctx, target)
		return err
	})
	if err != nil {
		return types.User{}, err
	}
	return target, nil
}
