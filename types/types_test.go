package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatIST(t *testing.T) {
	ts := time.Date(2026, time.January, 28, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, "Jan 29, 2026 12:15 AM IST", FormatIST(ts))
	assert.Equal(t, "", FormatIST(time.Time{}))
}

func TestNowIsIST(t *testing.T) {
	_, offset := Now().Zone()
	assert.Equal(t, 19800, offset)
}

func TestUserInitial(t *testing.T) {
	assert.Equal(t, "A", User{FirstName: "asha", Username: "zed"}.Initial())
	assert.Equal(t, "Z", User{Username: "zed"}.Initial())
	assert.Equal(t, "?", User{}.Initial())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Asha Rao", User{FirstName: "Asha", LastName: "Rao"}.FullName())
	assert.Equal(t, "zed", User{Username: "zed"}.FullName())
}
