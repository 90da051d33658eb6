package seed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/store/storetest"
	"github.com/folioworks/portfolio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c, err := DefaultContent()
	require.NoError(t, err)
	assert.Len(t, c.Projects, 1)
	assert.Len(t, c.Posts, 4)
	assert.Len(t, c.Videos, 2)
	assert.Equal(t, "January 28, 2026", c.Posts[3].PublishedDate)
}

func TestParseContentRejectsUnknownKeys(t *testing.T) {
	_, err := ParseContent(strings.NewReader("projects:\n  - title: X\n    colour: red\n"))
	assert.Error(t, err)

	_, err = ParseContent(strings.NewReader("posts:\n  - content: no title\n"))
	assert.EqualError(t, err, "post 1: title is required")

	c, err := ParseContent(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Projects)
}

func newContentSeeder(mem *storetest.Memory) *ContentSeeder {
	return NewContentSeeder(mem.Projects, mem.Posts, mem.Videos, mem)
}

func TestSeedContentOnlyFillsEmptyTables(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	_, err := mem.Projects.Create(ctx, types.Project{Title: "Existing"})
	require.NoError(t, err)

	c, err := DefaultContent()
	require.NoError(t, err)

	res, err := newContentSeeder(mem).Seed(ctx, c, false)
	require.NoError(t, err)
	assert.Equal(t, ContentResult{Projects: 0, Posts: 4, Videos: 2}, res)

	projects, err := mem.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Existing", projects[0].Title)

	res, err = newContentSeeder(mem).Seed(ctx, c, false)
	require.NoError(t, err)
	assert.Equal(t, ContentResult{}, res)
}

func TestSeedContentReplace(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	_, err := mem.Posts.Create(ctx, types.BlogPost{Title: "Old"})
	require.NoError(t, err)

	c := Content{Posts: []types.BlogPost{{Title: "New A"}, {Title: "New B"}}}
	res, err := newContentSeeder(mem).Seed(ctx, c, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Posts)

	posts, err := mem.Posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "New B", posts[0].Title)
}

func TestSeedContentRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	mem.FailNext("videos.Create", errors.New("disk full"))

	c, err := DefaultContent()
	require.NoError(t, err)

	_, err = newContentSeeder(mem).Seed(ctx, c, false)
	require.Error(t, err)

	n, err := mem.Posts.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type memUploader struct {
	objects map[string]string
	types   map[string]string
}

func (u *memUploader) EnsureBucket(context.Context) error { return nil }

func (u *memUploader) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	u.objects[key] = string(data)
	u.types[key] = contentType
	return nil
}

func TestUploadMedia(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "notes.bin"), []byte("raw"), 0o644))

	up := &memUploader{objects: map[string]string{}, types: map[string]string{}}
	n, err := UploadMedia(context.Background(), up, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "png", up.objects["cover.png"])
	assert.Equal(t, "image/png", up.types["cover.png"])
	assert.Equal(t, "application/octet-stream", up.types["posts/notes.bin"])
}

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadUserSpecs(t *testing.T) {
	specs, err := LoadUserSpecs(envFrom(map[string]string{
		"USERS_SEED_JSON": `[{"name":"Ada Lovelace","email":"ADA@example.com","password":"pw","is_admin":"yes"},
			{"name":"Bob","email":"bob@example.com","password":"pw","is_admin":false}]`,
		"USER2_EMAIL":    "carol@example.com",
		"USER2_PASSWORD": "pw",
		"USER2_IS_ADMIN": "on",
	}))
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.True(t, bool(specs[0].IsAdmin))
	assert.False(t, bool(specs[1].IsAdmin))
	assert.Equal(t, "carol@example.com", specs[2].Email)
	assert.True(t, bool(specs[2].IsAdmin))
}

func TestLoadUserSpecsErrors(t *testing.T) {
	_, err := LoadUserSpecs(envFrom(nil))
	assert.ErrorIs(t, err, ErrNoUsers)

	_, err = LoadUserSpecs(envFrom(map[string]string{"USERS_SEED_JSON": "{not json"}))
	assert.ErrorContains(t, err, "invalid USERS_SEED_JSON")
}

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	hash, err := services.HashPassword("Existing1")
	require.NoError(t, err)
	_, err = mem.Users.Create(ctx, types.User{Username: "bob", Email: "bob@example.com", PasswordHash: hash, IsActive: true})
	require.NoError(t, err)

	res, err := NewUserSeeder(mem.Users, mem).Seed(ctx, []UserSpec{
		{Name: "Ada King Lovelace", Email: " ADA@Example.com ", Password: "Secret123", IsAdmin: true},
		{Name: "Bob", Email: "bob@example.com", Password: "x", IsAdmin: true},
		{Name: "Bob Again", Email: "bob@example.com", Password: "x", IsAdmin: true},
		{Name: "No Password", Email: "nopw@example.com"},
		{Name: "Ada Two", Email: "ada@other.org", Password: "Secret123"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ada@example.com", "ada@other.org"}, res.Created)
	assert.Equal(t, []UserOutcome{
		{Email: "bob@example.com", Status: "admin updated"},
		{Email: "bob@example.com", Status: "exists"},
		{Email: "nopw@example.com", Status: "skipped (missing email/password)"},
	}, res.Updated)

	ada, err := mem.Users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada", ada.Username)
	assert.Equal(t, "Ada", ada.FirstName)
	assert.Equal(t, "King Lovelace", ada.LastName)
	assert.True(t, ada.IsAdmin)
	assert.True(t, ada.IsActive)
	assert.True(t, services.VerifyPassword("Secret123", ada.PasswordHash))

	second, err := mem.Users.GetByEmail(ctx, "ada@other.org")
	require.NoError(t, err)
	assert.Equal(t, "ada1", second.Username)

	bob, err := mem.Users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, bob.IsAdmin)
}
