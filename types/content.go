package types

// Project is a portfolio entry shown on the home and projects pages.
type Project struct {
	ID          int    `json:"id" db:"id" yaml:"-"`
	Title       string `json:"title" db:"title" yaml:"title"`
	Description string `json:"description" db:"description" yaml:"description"`
	ImageURL    string `json:"image_url" db:"image_url" yaml:"image_url"`
	GitHubLink  string `json:"github_link" db:"github_link" yaml:"github_link"`
	LiveLink    string `json:"live_link" db:"live_link" yaml:"live_link"`
}

// BlogPost is an article teaser. PublishedDate is free text such as "January 28, 2026".
type BlogPost struct {
	ID            int    `json:"id" db:"id" yaml:"-"`
	Title         string `json:"title" db:"title" yaml:"title"`
	Content       string `json:"content" db:"content" yaml:"content"`
	PublishedDate string `json:"published_date" db:"published_date" yaml:"published_date"`
	ImageURL      string `json:"image_url" db:"image_url" yaml:"image_url"`
}

// Video is an embedded video card on the blog page.
type Video struct {
	ID           int    `json:"id" db:"id" yaml:"-"`
	Title        string `json:"title" db:"title" yaml:"title"`
	Description  string `json:"description" db:"description" yaml:"description"`
	VideoURL     string `json:"video_url" db:"video_url" yaml:"video_url"`
	ThumbnailURL string `json:"thumbnail_url" db:"thumbnail_url" yaml:"thumbnail_url"`
}
