package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func messageOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	return verr.Message
}

func TestSignupPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"too short", "Ab1", "Password must be at least 8 characters long"},
		{"no uppercase", "abc12345", "Password must contain at least one uppercase letter"},
		{"no lowercase", "ABCDEFGH1", "Password must contain at least one lowercase letter"},
		{"no digit", "Abcdefgh", "Password must contain at least one number"},
		{"over bcrypt limit", "Abcdefg1" + strings.Repeat("x", 70), "Password must be at most 72 characters"},
		{"multibyte over bcrypt limit", "Abcdefg1" + strings.Repeat("é", 33), "Password must be at most 72 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Signup(SignupInput{Email: "a@b.co", Password: tt.password})
			assert.Equal(t, tt.want, messageOf(t, err))
		})
	}

	assert.NoError(t, Signup(SignupInput{Email: "a@b.co", Password: "Abcdefg1"}))
	assert.NoError(t, Signup(SignupInput{Email: "a@b.co", Password: "Abcdefg1" + strings.Repeat("x", 64)}))
}

func TestSignupEmailAndConfirmation(t *testing.T) {
	assert.Equal(t, "Email is required", messageOf(t, Signup(SignupInput{Email: "  ", Password: "Abcdefg1"})))
	assert.Equal(t, "Please enter a valid email address", messageOf(t, Signup(SignupInput{Email: "nodomain@", Password: "Abcdefg1"})))
	assert.Equal(t, "Please enter a valid email address", messageOf(t, Signup(SignupInput{Email: "a@b", Password: "Abcdefg1"})))

	long := strings.Repeat("a", 110) + "@example.com"
	assert.Equal(t, "Email must be 120 characters or fewer", messageOf(t, Signup(SignupInput{Email: long, Password: "Abcdefg1"})))
	assert.NoError(t, Signup(SignupInput{Email: strings.Repeat("a", 108) + "@example.com", Password: "Abcdefg1"}))

	err := Signup(SignupInput{Email: "a@b.co", Password: "Abcdefg1", ConfirmPassword: strPtr("Abcdefg2")})
	assert.Equal(t, "Passwords do not match", messageOf(t, err))

	assert.NoError(t, Signup(SignupInput{Email: "a@b.co", Password: "Abcdefg1", ConfirmPassword: strPtr("Abcdefg1")}))
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "johndoe", UsernameBase("John.Doe@example.com"))
	assert.Equal(t, "a1b2", UsernameBase("a_1-b+2@example.com"))
	assert.Equal(t, "user", UsernameBase("__@example.com"))
	assert.Equal(t, "jouser", UsernameBase("jo@example.com"))
	assert.Equal(t, "jsuser", UsernameBase("jösé@example.com"))
	assert.NoError(t, Username(UsernameBase("x@example.com")))

	base := UsernameBase(strings.Repeat("k", 130) + "@example.com")
	assert.Len(t, base, maxUsernameLength-5)
	assert.NoError(t, Username(base+"10000"))
}

func TestProfileLimits(t *testing.T) {
	assert.NoError(t, Profile(ProfileInput{
		FirstName: strings.Repeat("a", 50),
		LastName:  strings.Repeat("ü", 50),
		Website:   strings.Repeat("w", 200),
	}))

	tests := []struct {
		name string
		in   ProfileInput
		want string
	}{
		{"first name", ProfileInput{FirstName: strings.Repeat("a", 51)}, "First name must be 50 characters or fewer"},
		{"last name", ProfileInput{LastName: strings.Repeat("a", 51)}, "Last name must be 50 characters or fewer"},
		{"location", ProfileInput{Location: strings.Repeat("a", 101)}, "Location must be 100 characters or fewer"},
		{"website", ProfileInput{Website: strings.Repeat("a", 201)}, "Website must be 200 characters or fewer"},
		{"github", ProfileInput{GitHubUsername: strings.Repeat("a", 101)}, "GitHub username must be 100 characters or fewer"},
		{"linkedin", ProfileInput{LinkedInUsername: strings.Repeat("a", 101)}, "LinkedIn username must be 100 characters or fewer"},
		{"twitter", ProfileInput{TwitterUsername: strings.Repeat("a", 101)}, "Twitter username must be 100 characters or fewer"},
		{"first failure wins", ProfileInput{FirstName: strings.Repeat("a", 51), Website: strings.Repeat("a", 201)}, "First name must be 50 characters or fewer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageOf(t, Profile(tt.in)))
		})
	}
}

func TestUsernameRules(t *testing.T) {
	assert.Equal(t, "Username is required", messageOf(t, Username("")))
	assert.Equal(t, "Username can only contain lowercase letters, numbers, and underscores", messageOf(t, Username("bad-name")))
	assert.Equal(t, "Username can only contain lowercase letters, numbers, and underscores", messageOf(t, Username("Upper")))
	assert.Equal(t, "Username must be at least 3 characters long", messageOf(t, Username("ab")))
	assert.NoError(t, Username("good_name_1"))
	assert.Equal(t, "good", NormalizeUsername("  GOOD "))
}

func TestContactOrderedChecks(t *testing.T) {
	valid := ContactInput{Name: " Asha ", Email: "asha@example.com", Subject: "Hi", Message: " Hello "}

	msg, err := Contact(valid)
	require.NoError(t, err)
	assert.Equal(t, "Asha", msg.Name)
	assert.Equal(t, "Hello", msg.Message)
	assert.False(t, msg.IsRead)

	missing := valid
	missing.Subject = "   "
	_, err = Contact(missing)
	assert.Equal(t, "Subject is required", messageOf(t, err))

	badEmailAndLong := valid
	badEmailAndLong.Email = "nope"
	badEmailAndLong.Name = strings.Repeat("n", 101)
	_, err = Contact(badEmailAndLong)
	assert.Equal(t, "Please enter a valid email address", messageOf(t, err))

	long := valid
	long.Message = strings.Repeat("m", 2001)
	_, err = Contact(long)
	assert.Equal(t, "Message must be 2000 characters or fewer", messageOf(t, err))

	atLimit := valid
	atLimit.Message = strings.Repeat("é", 2000)
	_, err = Contact(atLimit)
	assert.NoError(t, err)
}

func TestFeedbackRatingDefaults(t *testing.T) {
	for raw, want := range map[string]int{"7": 5, "abc": 5, "": 5, "0": 5, "3": 3, " 1 ": 1, "5": 5} {
		fb, err := Feedback(FeedbackInput{Name: "N", Role: "R", Message: "M", Rating: raw})
		require.NoError(t, err)
		assert.Equal(t, want, fb.Rating, "rating %q", raw)
	}
}

func TestFeedbackRequiredAndLimits(t *testing.T) {
	_, err := Feedback(FeedbackInput{Name: "N", Message: "M"})
	assert.Equal(t, "Role is required", messageOf(t, err))

	_, err = Feedback(FeedbackInput{Name: "N", Role: "R", Message: "M", Company: strings.Repeat("c", 101)})
	assert.Equal(t, "Company must be 100 characters or fewer", messageOf(t, err))

	fb, err := Feedback(FeedbackInput{Name: "N", Role: "R", Message: "M", Company: "  "})
	require.NoError(t, err)
	assert.Empty(t, fb.Company)
	assert.False(t, fb.IsApproved)
}
