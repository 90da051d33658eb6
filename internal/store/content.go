package store

import (
	"context"

	"github.com/folioworks/portfolio/types"
)

// ProjectRepository handles persistence for portfolio projects.
type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context) ([]types.Project, error) {
	const query = `
		SELECT id, title, description, image_url, github_link, live_link
		FROM projects
		ORDER BY id ASC`
	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []types.Project{}
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.GitHubLink, &p.LiveLink); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM projects`)
}

func (r *ProjectRepository) Create(ctx context.Context, p types.Project) (types.Project, error) {
	const query = `
		INSERT INTO projects (title, description, image_url, github_link, live_link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.conn(ctx).QueryRowContext(ctx, query,
		p.Title, p.Description, p.ImageURL, p.GitHubLink, p.LiveLink,
	).Scan(&p.ID); err != nil {
		return types.Project{}, mapError(err)
	}
	return p, nil
}

func (r *ProjectRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM projects`)
	return err
}

// PostRepository handles persistence for blog posts.
type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// List returns every post, newest first.
func (r *PostRepository) List(ctx context.Context) ([]types.BlogPost, error) {
	return r.list(ctx, `
		SELECT id, title, content, published_date, image_url
		FROM blog_posts
		ORDER BY id DESC`)
}

// ListLatest returns at most limit posts, newest first.
func (r *PostRepository) ListLatest(ctx context.Context, limit int) ([]types.BlogPost, error) {
	return r.list(ctx, `
		SELECT id, title, content, published_date, image_url
		FROM blog_posts
		ORDER BY id DESC
		LIMIT $1`, limit)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]types.BlogPost, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []types.BlogPost{}
	for rows.Next() {
		var p types.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.PublishedDate, &p.ImageURL); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM blog_posts`)
}

func (r *PostRepository) Create(ctx context.Context, p types.BlogPost) (types.BlogPost, error) {
	const query = `
		INSERT INTO blog_posts (title, content, published_date, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.conn(ctx).QueryRowContext(ctx, query,
		p.Title, p.Content, p.PublishedDate, p.ImageURL,
	).Scan(&p.ID); err != nil {
		return types.BlogPost{}, mapError(err)
	}
	return p, nil
}

func (r *PostRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM blog_posts`)
	return err
}

// VideoRepository handles persistence for videos.
type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) List(ctx context.Context) ([]types.Video, error) {
	const query = `
		SELECT id, title, description, video_url, thumbnail_url
		FROM videos
		ORDER BY id ASC`
	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []types.Video{}
	for rows.Next() {
		var v types.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) Count(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM videos`)
}

func (r *VideoRepository) Create(ctx context.Context, v types.Video) (types.Video, error) {
	const query = `
		INSERT INTO videos (title, description, video_url, thumbnail_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.conn(ctx).QueryRowContext(ctx, query,
		v.Title, v.Description, v.VideoURL, v.ThumbnailURL,
	).Scan(&v.ID); err != nil {
		return types.Video{}, mapError(err)
	}
	return v, nil
}

func (r *VideoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM videos`)
	return err
}
