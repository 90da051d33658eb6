package services

import (
	"context"

	"github.com/folioworks/portfolio/types"
)

const homePostLimit = 2

// ProjectRepository defines read operations for projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]types.Project, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines read operations for blog posts.
type PostRepository interface {
	List(ctx context.Context) ([]types.BlogPost, error)
	ListLatest(ctx context.Context, limit int) ([]types.BlogPost, error)
	Count(ctx context.Context) (int, error)
}

// VideoRepository defines read operations for videos.
type VideoRepository interface {
	List(ctx context.Context) ([]types.Video, error)
	Count(ctx context.Context) (int, error)
}

// HomeContent is the data behind the landing page.
type HomeContent struct {
	Projects    []types.Project
	LatestPosts []types.BlogPost
}

// BlogContent is the data behind the blog page.
type BlogContent struct {
	Posts  []types.BlogPost
	Videos []types.Video
}

// ContentService serves the seeded, read-only content.
type ContentService struct {
	projects ProjectRepository
	posts    PostRepository
	videos   VideoRepository
}

func NewContentService(projects ProjectRepository, posts PostRepository, videos VideoRepository) *ContentService {
	return &ContentService{projects: projects, posts: posts, videos: videos}
}

func (s *ContentService) Home(ctx context.Context) (HomeContent, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return HomeContent{}, err
	}
	posts, err := s.posts.ListLatest(ctx, homePostLimit)
	if err != nil {
		return HomeContent{}, err
	}
	return HomeContent{Projects: projects, LatestPosts: posts}, nil
}

func (s *ContentService) Projects(ctx context.Context) ([]types.Project, error) {
	return s.projects.List(ctx)
}

func (s *ContentService) Blog(ctx context.Context) (BlogContent, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return BlogContent{}, err
	}
	videos, err := s.videos.List(ctx)
	if err != nil {
		return BlogContent{}, err
	}
	return BlogContent{Posts: posts, Videos: videos}, nil
}
