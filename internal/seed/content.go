// Package seed loads the read-only site content and bootstrap accounts.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/folioworks/portfolio/types"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed default_content.yaml
var defaultContent []byte

// Content is the YAML document describing projects, posts and videos.
// Posts are listed oldest first so the newest one gets the highest id.
type Content struct {
	Projects []types.Project  `yaml:"projects"`
	Posts    []types.BlogPost `yaml:"posts"`
	Videos   []types.Video    `yaml:"videos"`
}

// ParseContent decodes a content document. Unknown keys are rejected.
func ParseContent(r io.Reader) (Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Content{}, fmt.Errorf("decode content: %w", err)
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return Content{}, fmt.Errorf("project %d: title is required", i+1)
		}
	}
	for i, p := range c.Posts {
		if strings.TrimSpace(p.Title) == "" {
			return Content{}, fmt.Errorf("post %d: title is required", i+1)
		}
	}
	for i, v := range c.Videos {
		if strings.TrimSpace(v.Title) == "" {
			return Content{}, fmt.Errorf("video %d: title is required", i+1)
		}
	}
	return c, nil
}

// DefaultContent returns the sample content compiled into the binary.
func DefaultContent() (Content, error) {
	return ParseContent(bytes.NewReader(defaultContent))
}

// LoadContentFile reads a content document from disk.
func LoadContentFile(path string) (Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return Content{}, err
	}
	defer f.Close()
	return ParseContent(f)
}

type ProjectStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p types.Project) (types.Project, error)
	DeleteAll(ctx context.Context) error
}

type PostStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p types.BlogPost) (types.BlogPost, error)
	DeleteAll(ctx context.Context) error
}

type VideoStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, v types.Video) (types.Video, error)
	DeleteAll(ctx context.Context) error
}

// Transactor runs fn atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContentResult counts the rows written per table.
type ContentResult struct {
	Projects int
	Posts    int
	Videos   int
}

// ContentSeeder writes Content into the content tables.
type ContentSeeder struct {
	projects ProjectStore
	posts    PostStore
	videos   VideoStore
	tx       Transactor
}

func NewContentSeeder(projects ProjectStore, posts PostStore, videos VideoStore, tx Transactor) *ContentSeeder {
	return &ContentSeeder{projects: projects, posts: posts, videos: videos, tx: tx}
}

// Seed fills each empty table from c. With replace, the three tables are
// emptied and refilled. Everything happens in one transaction.
func (s *ContentSeeder) Seed(ctx context.Context, c Content, replace bool) (ContentResult, error) {
	var res ContentResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		res.Projects, err = seedTable[types.Project](ctx, s.projects, c.Projects, replace)
		if err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		res.Posts, err = seedTable[types.BlogPost](ctx, s.posts, c.Posts, replace)
		if err != nil {
			return fmt.Errorf("posts: %w", err)
		}
		res.Videos, err = seedTable[types.Video](ctx, s.videos, c.Videos, replace)
		if err != nil {
			return fmt.Errorf("videos: %w", err)
		}
		return nil
	})
	if err != nil {
		return ContentResult{}, err
	}
	return res, nil
}

type table[T any] interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, item T) (T, error)
	DeleteAll(ctx context.Context) error
}

func seedTable[T any](ctx context.Context, t table[T], items []T, replace bool) (int, error) {
	if replace {
		if err := t.DeleteAll(ctx); err != nil {
			return 0, err
		}
	} else {
		n, err := t.Count(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, nil
		}
	}
	for _, item := range items {
		if _, err := t.Create(ctx, item); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

// Uploader is the object storage used for seeded media.
type Uploader interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// UploadMedia puts every regular file under dir into storage, keyed by its
// slash-separated path relative to dir.
func UploadMedia(ctx context.Context, up Uploader, dir string) (int, error) {
	if err := up.EnsureBucket(ctx); err != nil {
		return 0, fmt.Errorf("ensure bucket: %w", err)
	}

	uploaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := up.Put(ctx, key, f, info.Size(), contentType); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		log.Debug().Str("key", key).Int64("size", info.Size()).Msg("uploaded media")
		uploaded++
		return nil
	})
	return uploaded, err
}
