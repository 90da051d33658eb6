package profile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/folioworks/portfolio/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	defaultTimeout  = 5 * time.Second
	userAgent       = "portfolio-site/1.0 (+profile-block)"
	maxPayloadBytes = 1 << 20
)

// Fetcher reads public profiles from a GitHub-compatible users API.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  log.With().Str("component", "profile").Logger(),
	}
}

// Fetch returns the profile for username, or nil when the lookup fails for
// any reason. Callers render without the profile block in that case.
func (f *Fetcher) Fetch(ctx context.Context, username string) *types.ProfileSummary {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	summary, err := f.fetch(ctx, username)
	if err != nil {
		f.logger.Debug().Err(err).Str("username", username).Msg("profile fetch failed")
		return nil
	}
	return summary
}

func (f *Fetcher) fetch(ctx context.Context, username string) (*types.ProfileSummary, error) {
	endpoint := fmt.Sprintf("%s/users/%s", f.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}
	return parseSummary(body)
}

func parseSummary(body []byte) (*types.ProfileSummary, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("profile payload is not valid json")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("profile payload is not an object")
	}
	login := doc.Get("login")
	if !login.Exists() || login.String() == "" {
		return nil, fmt.Errorf("profile payload has no login")
	}
	return &types.ProfileSummary{
		Login:       login.String(),
		Name:        doc.Get("name").String(),
		AvatarURL:   doc.Get("avatar_url").String(),
		Bio:         doc.Get("bio").String(),
		HTMLURL:     doc.Get("html_url").String(),
		PublicRepos: doc.Get("public_repos").Int(),
		Followers:   doc.Get("followers").Int(),
		Following:   doc.Get("following").Int(),
	}, nil
}
