package types

// ProfileSummary is the subset of a third-party profile shown on the blog page.
type ProfileSummary struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int64  `json:"public_repos"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
}
