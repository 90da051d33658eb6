package handlers

import (
	"errors"
	"net/http"

	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/validate"
	"github.com/folioworks/portfolio/types"
	"github.com/go-chi/chi/v5"
)

// ProfileHandler serves the logged-in user's own profile.
type ProfileHandler struct {
	pages
	auth  *services.AuthService
	users *services.UserService
}

func NewProfileHandler(views Renderer, sessions *session.Manager, auth *services.AuthService, users *services.UserService) *ProfileHandler {
	return &ProfileHandler{
		pages: pages{views: views, sessions: sessions},
		auth:  auth,
		users: users,
	}
}

// ProfileRouter registers the session-gated profile routes.
func ProfileRouter(r chi.Router, h *ProfileHandler) {
	r.Get("/profile", h.Profile)
	r.Get("/edit_profile", h.EditProfileForm)
	r.Post("/edit_profile", h.EditProfile)
}

// currentUser redirects home and returns nil when the request has no active user.
func (h *ProfileHandler) currentUser(w http.ResponseWriter, r *http.Request) *types.User {
	user, err := h.auth.CurrentUser(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		h.serverError(w, r, err, "failed to load current user")
		return nil
	}
	if user == nil {
		redirectHome(w, r)
		return nil
	}
	return user
}

func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	h.render(w, r, http.StatusOK, "profile", "Profile", *user)
}

func (h *ProfileHandler) EditProfileForm(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	h.render(w, r, http.StatusOK, "edit_profile", "Edit profile", *user)
}

// EditProfile applies the fields present in the form. On any failure nothing
// is saved and the form is shown again with the stored values.
func (h *ProfileHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	f, err := readFields(w, r)
	if err != nil {
		h.flash(r, "error", "Invalid request")
		h.render(w, r, http.StatusOK, "edit_profile", "Edit profile", *user)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, profileUpdate(f))
	if err != nil {
		var verr *validate.Error
		switch {
		case errors.As(err, &verr):
			h.flash(r, "error", verr.Message)
		case errors.Is(err, services.ErrUsernameTaken):
			h.flash(r, "error", "Username is already taken")
		default:
			logError(r, err, "failed to update profile")
			h.flash(r, "error", genericErrorMessage)
		}
		h.render(w, r, http.StatusOK, "edit_profile", "Edit profile", *user)
		return
	}

	if sess := session.FromContext(r.Context()); sess != nil {
		sess.SetUsername(updated.Username, updated.Initial())
	}
	h.redirectWithFlash(w, r, "/profile", "success", "Profile updated successfully!")
}

func profileUpdate(f fields) services.ProfileUpdate {
	return services.ProfileUpdate{
		Username:         f.optional("username"),
		FirstName:        f.optional("first_name"),
		LastName:         f.optional("last_name"),
		Bio:              f.optional("bio"),
		Location:         f.optional("location"),
		Website:          f.optional("website"),
		GitHubUsername:   f.optional("github_username"),
		LinkedInUsername: f.optional("linkedin_username"),
		TwitterUsername:  f.optional("twitter_username"),
	}
}
