package validate

import (
	"strings"
	"unicode"
)

const usernameFallback = "user"

// SignupInput is the raw signup form. ConfirmPassword is nil when the field was not sent.
type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword *string
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup checks the email shape and the password policy.
func Signup(in SignupInput) error {
	email := strings.TrimSpace(in.Email)
	err := check(
		rule{"email", email, "required", "Email is required"},
		rule{"email", email, "simple_email", "Please enter a valid email address"},
		rule{"email", email, "max=120", "Email must be 120 characters or fewer"},
		rule{"password", in.Password, "min=8", "Password must be at least 8 characters long"},
		rule{"password", in.Password, "bcrypt_len", "Password must be at most 72 characters"},
		rule{"password", in.Password, "has_upper", "Password must contain at least one uppercase letter"},
		rule{"password", in.Password, "has_lower", "Password must contain at least one lowercase letter"},
		rule{"password", in.Password, "has_digit", "Password must contain at least one number"},
	)
	if err != nil {
		return err
	}
	if in.ConfirmPassword != nil && *in.ConfirmPassword != in.Password {
		return &Error{Field: "confirm_password", Message: "Passwords do not match"}
	}
	return nil
}

// UsernameBase derives the username stem from an email's local part: only
// ASCII letters and digits survive, lowercased. Stems shorter than three
// characters are padded and long stems are cut so that a numeric suffix
// still fits the username length limit.
func UsernameBase(email string) string {
	local := email
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	var b strings.Builder
	for _, r := range local {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	base := b.String()
	switch {
	case base == "":
		return usernameFallback
	case len(base) < minUsernameLength:
		return base + usernameFallback
	case len(base) > maxUsernameBaseLength:
		return base[:maxUsernameBaseLength]
	}
	return base
}
