package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/internal/store/storetest"
	"github.com/folioworks/portfolio/internal/validate"
	"github.com/folioworks/portfolio/types"
	"github.com/stretchr/testify/suite"
)

type recordingNotifier struct {
	contacts []types.ContactMessage
	feedback []types.Feedback
}

func (n *recordingNotifier) ContactReceived(_ context.Context, msg types.ContactMessage) {
	n.contacts = append(n.contacts, msg)
}

func (n *recordingNotifier) FeedbackReceived(_ context.Context, fb types.Feedback) {
	n.feedback = append(n.feedback, fb)
}

type ServicesSuite struct {
	suite.Suite
	ctx        context.Context
	mem        *storetest.Memory
	notifier   *recordingNotifier
	auth       *AuthService
	users      *UserService
	content    *ContentService
	submission *SubmissionService
	admin      *AdminService
}

func TestServicesSuite(t *testing.T) {
	suite.Run(t, new(ServicesSuite))
}

func (s *ServicesSuite) SetupTest() {
	s.ctx = context.Background()
	s.mem = storetest.New()
	s.notifier = &recordingNotifier{}
	s.auth = NewAuthService(s.mem.Users, s.mem)
	s.users = NewUserService(s.mem.Users, s.mem)
	s.content = NewContentService(s.mem.Projects, s.mem.Posts, s.mem.Videos)
	s.submission = NewSubmissionService(s.mem.Contacts, s.mem.Feedback, s.mem, s.notifier)
	s.admin = NewAdminService(s.mem.Users, s.mem.Projects, s.mem.Posts, s.mem.Videos, s.mem.Contacts, s.mem.Feedback, s.mem)
}

func (s *ServicesSuite) signup(email string) types.User {
	user, err := s.auth.Signup(s.ctx, validate.SignupInput{Email: email, Password: "Abcdefg1"})
	s.Require().NoError(err)
	return user
}

func (s *ServicesSuite) sessionFor(user types.User) *session.Session {
	return session.New("key", SessionData(user), time.Now().Add(time.Hour))
}

func (s *ServicesSuite) TestPasswordHashing() {
	hash, err := HashPassword("Abcdefg1")
	s.Require().NoError(err)
	s.NotEqual("Abcdefg1", hash)
	s.True(VerifyPassword("Abcdefg1", hash))
	s.False(VerifyPassword("abcdefg1", hash))
}

func (s *ServicesSuite) TestSignupDerivesSequentialUsernames() {
	first := s.signup("john.doe@example.com")
	second := s.signup("John_Doe@other.org")
	third := s.signup("johndoe@third.net")

	s.Equal("johndoe", first.Username)
	s.Equal("johndoe1", second.Username)
	s.Equal("johndoe2", third.Username)
	s.Equal("john_doe@other.org", second.Email)
	s.True(first.IsActive)
	s.False(first.IsAdmin)
	s.NotEqual("Abcdefg1", first.PasswordHash)
}

func (s *ServicesSuite) TestSignupDuplicateEmailCreatesNothing() {
	s.signup("asha@example.com")

	_, err := s.auth.Signup(s.ctx, validate.SignupInput{Email: "ASHA@example.com", Password: "Abcdefg1"})
	s.ErrorIs(err, ErrEmailTaken)

	count, _ := s.mem.Users.Count(s.ctx)
	s.Equal(1, count)
}

func (s *ServicesSuite) TestSignupValidationError() {
	_, err := s.auth.Signup(s.ctx, validate.SignupInput{Email: "asha@example.com", Password: "abc12345"})
	var verr *validate.Error
	s.Require().ErrorAs(err, &verr)
	s.Equal("Password must contain at least one uppercase letter", verr.Message)
}

func (s *ServicesSuite) TestSignupUniqueViolationAtWrite() {
	s.mem.FailNext("users.Create", fmt.Errorf("%w: users_username_key", store.ErrConflict))

	_, err := s.auth.Signup(s.ctx, validate.SignupInput{Email: "race@example.com", Password: "Abcdefg1"})
	s.ErrorIs(err, ErrAlreadyExists)
}

func (s *ServicesSuite) TestLoginByUsernameOrEmail() {
	user := s.signup("Asha@Example.com")

	got, err := s.auth.Login(s.ctx, "ASHA", "Abcdefg1")
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)

	got, err = s.auth.Login(s.ctx, " asha@EXAMPLE.com ", "Abcdefg1")
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)

	_, err = s.auth.Login(s.ctx, "asha", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.auth.Login(s.ctx, "nobody", "Abcdefg1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServicesSuite) TestLoginDeactivated() {
	user := s.signup("asha@example.com")
	user.IsActive = false
	_, err := s.mem.Users.Update(s.ctx, user)
	s.Require().NoError(err)

	_, err = s.auth.Login(s.ctx, "asha", "Abcdefg1")
	s.ErrorIs(err, ErrAccountDeactivated)

	_, err = s.auth.Login(s.ctx, "asha", "nope")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServicesSuite) TestRequireAdminRereadsStore() {
	user := s.signup("boss@example.com")
	user.IsAdmin = true
	user, _ = s.mem.Users.Update(s.ctx, user)
	sess := s.sessionFor(user)

	_, err := s.auth.RequireAdmin(s.ctx, sess)
	s.NoError(err)

	user.IsAdmin = false
	_, _ = s.mem.Users.Update(s.ctx, user)
	_, err = s.auth.RequireAdmin(s.ctx, sess)
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.auth.RequireAdmin(s.ctx, nil)
	s.ErrorIs(err, ErrUnauthorized)

	s.Require().NoError(s.mem.Users.Delete(s.ctx, user.ID))
	current, err := s.auth.CurrentUser(s.ctx, sess)
	s.NoError(err)
	s.Nil(current)
}

func (s *ServicesSuite) TestCheckUsername() {
	owner := s.signup("owner@example.com")
	s.signup("taken@example.com")
	sess := s.sessionFor(owner)

	check, err := s.auth.CheckUsername(s.ctx, "owner", sess)
	s.Require().NoError(err)
	s.True(check.Available)
	s.Equal("This is your current username", check.Message)

	check, _ = s.auth.CheckUsername(s.ctx, "owner", nil)
	s.False(check.Available)
	s.Equal("Username is already taken", check.Message)

	check, _ = s.auth.CheckUsername(s.ctx, "Taken", sess)
	s.False(check.Available)

	check, _ = s.auth.CheckUsername(s.ctx, "ab", sess)
	s.False(check.Available)
	s.Equal("Username must be at least 3 characters long", check.Message)

	check, _ = s.auth.CheckUsername(s.ctx, "fresh_name", sess)
	s.True(check.Available)
	s.Equal("Username is available!", check.Message)
}

func (s *ServicesSuite) TestUpdateProfilePartial() {
	user := s.signup("asha@example.com")
	bio := "  Builder of things "
	user, err := s.users.UpdateProfile(s.ctx, user.ID, ProfileUpdate{Bio: &bio})
	s.Require().NoError(err)
	s.Equal("Builder of things", user.Bio)
	s.Equal("asha", user.Username)
	s.Equal("asha@example.com", user.Email)

	name := "Asha_R"
	user, err = s.users.UpdateProfile(s.ctx, user.ID, ProfileUpdate{Username: &name})
	s.Require().NoError(err)
	s.Equal("asha_r", user.Username)
}

func (s *ServicesSuite) TestUpdateProfileUsernameTakenAbortsWholeUpdate() {
	user := s.signup("asha@example.com")
	s.signup("ravi@example.com")

	name, bio := "ravi", "new bio"
	_, err := s.users.UpdateProfile(s.ctx, user.ID, ProfileUpdate{Username: &name, Bio: &bio})
	s.ErrorIs(err, ErrUsernameTaken)

	stored, _ := s.mem.Users.GetByID(s.ctx, user.ID)
	s.Equal("asha", stored.Username)
	s.Empty(stored.Bio)

	bad := "no spaces"
	_, err = s.users.UpdateProfile(s.ctx, user.ID, ProfileUpdate{Username: &bad})
	var verr *validate.Error
	s.ErrorAs(err, &verr)
}

func (s *ServicesSuite) TestUpdateProfileRejectsOverlongFields() {
	user := s.signup("asha@example.com")

	website, bio := strings.Repeat("w", 201), "kept out"
	_, err := s.users.UpdateProfile(s.ctx, user.ID, ProfileUpdate{Website: &website, Bio: &bio})
	var verr *validate.Error
	s.Require().ErrorAs(err, &verr)
	s.Equal("website", verr.Field)

	stored, _ := s.mem.Users.GetByID(s.ctx, user.ID)
	s.Empty(stored.Website)
	s.Empty(stored.Bio)
}

func (s *ServicesSuite) TestSignupCapsDerivedUsername() {
	user := s.signup(strings.Repeat("k", 100) + "@example.com")
	s.Len(user.Username, 75)

	again := s.signup(strings.Repeat("k", 90) + "@example.org")
	s.Equal(user.Username+"1", again.Username)
}

func (s *ServicesSuite) TestPromote() {
	s.signup("asha@example.com")

	user, already, err := s.users.Promote(s.ctx, "ASHA@example.com")
	s.Require().NoError(err)
	s.False(already)
	s.True(user.IsAdmin)

	_, already, err = s.users.Promote(s.ctx, "asha")
	s.Require().NoError(err)
	s.True(already)

	_, _, err = s.users.Promote(s.ctx, "ghost")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *ServicesSuite) TestContentHomeShowsLatestTwoPosts() {
	_, _ = s.mem.Projects.Create(s.ctx, types.Project{Title: "P"})
	for i := 1; i <= 3; i++ {
		_, _ = s.mem.Posts.Create(s.ctx, types.BlogPost{Title: fmt.Sprintf("post %d", i)})
	}

	home, err := s.content.Home(s.ctx)
	s.Require().NoError(err)
	s.Len(home.Projects, 1)
	s.Require().Len(home.LatestPosts, 2)
	s.Equal("post 3", home.LatestPosts[0].Title)
	s.Equal("post 2", home.LatestPosts[1].Title)

	blog, err := s.content.Blog(s.ctx)
	s.Require().NoError(err)
	s.Len(blog.Posts, 3)
	s.Empty(blog.Videos)
}

func (s *ServicesSuite) TestSubmitContactNotifiesAfterCommit() {
	msg, err := s.submission.SubmitContact(s.ctx, validate.ContactInput{
		Name: "Asha", Email: "asha@example.com", Subject: "Hi", Message: "Hello",
	})
	s.Require().NoError(err)
	s.False(msg.IsRead)
	s.Len(s.notifier.contacts, 1)

	s.mem.FailNext("contacts.Create", errors.New("disk full"))
	_, err = s.submission.SubmitContact(s.ctx, validate.ContactInput{
		Name: "Asha", Email: "asha@example.com", Subject: "Hi", Message: "Again",
	})
	s.Error(err)
	s.Len(s.notifier.contacts, 1)

	count, _ := s.mem.Contacts.Count(s.ctx)
	s.Equal(1, count)
}

func (s *ServicesSuite) TestSubmitFeedbackRatingFallback() {
	fb, err := s.submission.SubmitFeedback(s.ctx, validate.FeedbackInput{Name: "N", Role: "R", Message: "M", Rating: "7"})
	s.Require().NoError(err)
	s.Equal(5, fb.Rating)
	s.False(fb.IsApproved)
	s.Len(s.notifier.feedback, 1)
}

func (s *ServicesSuite) TestApprovedFeedbackNewestTwo() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, types.IST)
	for i, approved := range []bool{true, true, false, true} {
		fb, _ := s.mem.Feedback.Create(s.ctx, types.Feedback{
			Name: fmt.Sprintf("n%d", i), Role: "r", Message: "m", Rating: 5,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if approved {
			s.Require().NoError(s.admin.ApproveFeedback(s.ctx, fb.ID))
		}
	}

	entries, err := s.submission.ApprovedFeedback(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("n3", entries[0].Name)
	s.Equal("n1", entries[1].Name)
	for _, fb := range entries {
		s.True(fb.IsApproved)
	}
}

func (s *ServicesSuite) TestDashboardCounts() {
	for i := 0; i < 6; i++ {
		s.signup(fmt.Sprintf("user%d@example.com", i))
	}
	_, _ = s.submission.SubmitContact(s.ctx, validate.ContactInput{Name: "a", Email: "a@b.co", Subject: "s", Message: "m"})
	_, _ = s.submission.SubmitFeedback(s.ctx, validate.FeedbackInput{Name: "a", Role: "r", Message: "m"})

	d, err := s.admin.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(6, d.Users)
	s.Equal(1, d.Messages)
	s.Equal(1, d.UnreadMessages)
	s.Equal(1, d.Feedback)
	s.Equal(1, d.PendingFeedback)
	s.Len(d.RecentUsers, 5)
}

func (s *ServicesSuite) TestAdminSelfProtection() {
	admin := s.signup("boss@example.com")
	other := s.signup("other@example.com")

	_, err := s.admin.DeleteUser(s.ctx, admin, admin.ID)
	s.ErrorIs(err, ErrSelfAction)
	_, err = s.admin.ToggleUserStatus(s.ctx, admin, admin.ID)
	s.ErrorIs(err, ErrSelfAction)

	stored, err := s.mem.Users.GetByID(s.ctx, admin.ID)
	s.Require().NoError(err)
	s.True(stored.IsActive)

	toggled, err := s.admin.ToggleUserStatus(s.ctx, admin, other.ID)
	s.Require().NoError(err)
	s.False(toggled.IsActive)

	deleted, err := s.admin.DeleteUser(s.ctx, admin, other.ID)
	s.Require().NoError(err)
	s.Equal(other.ID, deleted.ID)
	_, err = s.mem.Users.GetByID(s.ctx, other.ID)
	s.ErrorIs(err, store.ErrNotFound)

	_, err = s.admin.DeleteUser(s.ctx, admin, 9999)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *ServicesSuite) TestMakeAdmin() {
	user := s.signup("asha@example.com")

	promoted, already, err := s.admin.MakeAdmin(s.ctx, user.ID)
	s.Require().NoError(err)
	s.False(already)
	s.True(promoted.IsAdmin)

	_, already, err = s.admin.MakeAdmin(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(already)
}

func (s *ServicesSuite) TestWithinTxRollsBackOnPanic() {
	err := s.mem.WithinTx(s.ctx, func(ctx context.Context) error {
		_, _ = s.mem.Contacts.Create(ctx, types.ContactMessage{Name: "x"})
		panic("boom")
	})
	s.ErrorIs(err, store.ErrTxPanic)
	count, _ := s.mem.Contacts.Count(s.ctx)
	s.Zero(count)
}
