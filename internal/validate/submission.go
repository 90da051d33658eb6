package validate

import (
	"strconv"
	"strings"

	"github.com/folioworks/portfolio/types"
)

const defaultRating = 5

// ContactInput is the raw connect form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Contact trims the form and checks it, returning the message to store.
func Contact(in ContactInput) (types.ContactMessage, error) {
	msg := types.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	err := check(
		rule{"name", msg.Name, "required", "Name is required"},
		rule{"email", msg.Email, "required", "Email is required"},
		rule{"subject", msg.Subject, "required", "Subject is required"},
		rule{"message", msg.Message, "required", "Message is required"},
		rule{"email", msg.Email, "simple_email", "Please enter a valid email address"},
		rule{"name", msg.Name, "max=100", "Name must be 100 characters or fewer"},
		rule{"email", msg.Email, "max=120", "Email must be 120 characters or fewer"},
		rule{"subject", msg.Subject, "max=200", "Subject must be 200 characters or fewer"},
		rule{"message", msg.Message, "max=2000", "Message must be 2000 characters or fewer"},
	)
	if err != nil {
		return types.ContactMessage{}, err
	}
	return msg, nil
}

// FeedbackInput is the raw feedback form. Rating is whatever the client sent.
type FeedbackInput struct {
	Name    string
	Role    string
	Company string
	Message string
	Rating  string
}

// Feedback trims the form and checks it, returning the entry to store.
// An unusable rating falls back to 5 instead of failing.
func Feedback(in FeedbackInput) (types.Feedback, error) {
	fb := types.Feedback{
		Name:    strings.TrimSpace(in.Name),
		Role:    strings.TrimSpace(in.Role),
		Company: strings.TrimSpace(in.Company),
		Message: strings.TrimSpace(in.Message),
		Rating:  ParseRating(in.Rating),
	}
	err := check(
		rule{"name", fb.Name, "required", "Name is required"},
		rule{"role", fb.Role, "required", "Role is required"},
		rule{"message", fb.Message, "required", "Message is required"},
		rule{"name", fb.Name, "max=100", "Name must be 100 characters or fewer"},
		rule{"role", fb.Role, "max=100", "Role must be 100 characters or fewer"},
		rule{"company", fb.Company, "max=100", "Company must be 100 characters or fewer"},
		rule{"message", fb.Message, "max=2000", "Message must be 2000 characters or fewer"},
	)
	if err != nil {
		return types.Feedback{}, err
	}
	return fb, nil
}

// ParseRating returns raw as an integer in [1,5], or 5.
func ParseRating(raw string) int {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || rating < 1 || rating > 5 {
		return defaultRating
	}
	return rating
}
