package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesEveryPage(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		"home", "skills", "projects", "blog", "connect", "fun", "contact",
		"profile", "edit_profile", "admin_dashboard", "admin_users",
		"admin_messages", "admin_feedback", "error",
	} {
		_, ok := tmpl.pages[name]
		assert.True(t, ok, name)
	}
	_, ok := tmpl.pages["layout"]
	assert.False(t, ok)
}

func TestRenderNavigationAndFlashes(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.Render(&buf, "fun", Page{
		Title:   "Fun",
		Viewer:  &Viewer{Username: "jane", Initial: "J", IsAdmin: true},
		Flashes: []session.Flash{{Category: "success", Message: "Saved <b>now</b>"}},
	})
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "<title>Fun · Portfolio</title>")
	assert.Contains(t, body, `href="/admin"`)
	assert.Contains(t, body, `href="/logout"`)
	assert.Contains(t, body, "Saved &lt;b&gt;now&lt;/b&gt;")
}

func TestRenderAnonymousHidesAdminLink(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Render(&buf, "skills", Page{}))
	assert.NotContains(t, buf.String(), `href="/admin"`)
	assert.Contains(t, buf.String(), "Log in")
}

func TestRenderProfileFormatsIST(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	created := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err = tmpl.Render(&buf, "profile", Page{Data: types.User{Username: "jane", Email: "jane@example.com", CreatedAt: created}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Mar 05, 2024 01:30 PM IST")
}

func TestRenderUnknownPage(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)
	assert.Error(t, tmpl.Render(&bytes.Buffer{}, "missing", Page{}))
}

func TestStars(t *testing.T) {
	stars := funcs["stars"].(func(int) string)
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★★★★★", stars(9))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
}
