package handlers

import (
	"context"
	"net/http"

	"github.com/folioworks/portfolio/config"
	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/types"
	"github.com/go-chi/chi/v5"
)

// ProfileFetcher looks up the public profile shown on the blog page.
type ProfileFetcher interface {
	Fetch(ctx context.Context, username string) *types.ProfileSummary
}

// BlogPage is the data behind the blog template.
type BlogPage struct {
	Posts   []types.BlogPost
	Videos  []types.Video
	Profile *types.ProfileSummary
	Social  config.SocialConfig
}

// PageHandler serves the public pages.
type PageHandler struct {
	pages
	content     *services.ContentService
	submissions *services.SubmissionService
	fetcher     ProfileFetcher
	social      config.SocialConfig
}

func NewPageHandler(
	views Renderer,
	sessions *session.Manager,
	content *services.ContentService,
	submissions *services.SubmissionService,
	fetcher ProfileFetcher,
	social config.SocialConfig,
) *PageHandler {
	return &PageHandler{
		pages:       pages{views: views, sessions: sessions},
		content:     content,
		submissions: submissions,
		fetcher:     fetcher,
		social:      social,
	}
}

// PageRouter registers the public pages on the given router.
func PageRouter(r chi.Router, h *PageHandler) {
	r.Get("/", h.Home)
	r.Get("/skills", h.static("skills", "Skills"))
	r.Get("/projects", h.Projects)
	r.Get("/blog", h.Blog)
	r.Get("/connect", h.Connect)
	r.Get("/fun", h.static("fun", "Fun"))
	r.Get("/contact", h.static("contact", "Contact"))
}

func (h *PageHandler) static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, title, nil)
	}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.content.Home(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to load home content")
		return
	}
	h.render(w, r, http.StatusOK, "home", "", home)
}

func (h *PageHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.content.Projects(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list projects")
		return
	}
	h.render(w, r, http.StatusOK, "projects", "Projects", projects)
}

// Blog renders posts and videos. The external profile block is best effort
// and simply left out when the lookup fails.
func (h *PageHandler) Blog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.content.Blog(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to load blog content")
		return
	}

	data := BlogPage{Posts: blog.Posts, Videos: blog.Videos, Social: h.social}
	if h.fetcher != nil && h.social.GitHubUsername != "" {
		data.Profile = h.fetcher.Fetch(r.Context(), h.social.GitHubUsername)
	}
	h.render(w, r, http.StatusOK, "blog", "Blog", data)
}

func (h *PageHandler) Connect(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.submissions.ApprovedFeedback(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list approved feedback")
		return
	}
	h.render(w, r, http.StatusOK, "connect", "Connect", feedback)
}
