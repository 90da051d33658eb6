package validate

import (
	"strconv"
	"strings"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 80
	// Derived stems leave room for a suffix of up to five digits.
	maxUsernameBaseLength = maxUsernameLength - 5
)

// NormalizeUsername trims and lowercases a submitted username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Username checks a normalized username against the character and length rules.
func Username(username string) error {
	return check(
		rule{"username", username, "required", "Username is required"},
		rule{"username", username, "username_chars", "Username can only contain lowercase letters, numbers, and underscores"},
		rule{"username", username, "min=" + strconv.Itoa(minUsernameLength), "Username must be at least 3 characters long"},
		rule{"username", username, "max=" + strconv.Itoa(maxUsernameLength), "Username must be 80 characters or fewer"},
	)
}
