package types

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User represents a registered site account.
// It contains identity, profile and moderation metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique lowercase handle, derived from the email at signup.
	Username string `json:"username" db:"username"`

	// Email is the user's email address, stored lowercase.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// FirstName is the optional given name.
	FirstName string `json:"first_name" db:"first_name"`

	// LastName is the optional family name.
	LastName string `json:"last_name" db:"last_name"`

	// Bio is a short free-text description shown on the profile page.
	Bio string `json:"bio" db:"bio"`

	// Location is a free-text location.
	Location string `json:"location" db:"location"`

	// Website is the user's personal site URL.
	Website string `json:"website" db:"website"`

	// GitHubUsername, LinkedInUsername and TwitterUsername are social handles.
	GitHubUsername   string `json:"github_username" db:"github_username"`
	LinkedInUsername string `json:"linkedin_username" db:"linkedin_username"`
	TwitterUsername  string `json:"twitter_username" db:"twitter_username"`

	// CreatedAt is the instant the account was created, stamped in IST.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// IsActive is false once an admin deactivates the account.
	IsActive bool `json:"is_active" db:"is_active"`

	// IsAdmin grants access to the moderation panel.
	IsAdmin bool `json:"is_admin" db:"is_admin"`
}

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// Initial is the uppercase first letter of the first name, or of the username
// when no first name is set.
func (u User) Initial() string {
	source := strings.TrimSpace(u.FirstName)
	if source == "" {
		source = u.Username
	}
	r, _ := utf8.DecodeRuneInString(source)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
