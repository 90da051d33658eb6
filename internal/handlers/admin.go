package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/types"
	"github.com/go-chi/chi/v5"
)

type adminContextKey struct{}

// AdminUsersPage is the data behind the user management template.
type AdminUsersPage struct {
	Users   []types.User
	AdminID int
}

// AdminHandler serves the moderation panel.
type AdminHandler struct {
	pages
	auth  *services.AuthService
	admin *services.AdminService
}

func NewAdminHandler(views Renderer, sessions *session.Manager, auth *services.AuthService, admin *services.AdminService) *AdminHandler {
	return &AdminHandler{
		pages: pages{views: views, sessions: sessions},
		auth:  auth,
		admin: admin,
	}
}

// AdminRouter registers the admin routes. Every route re-checks admin rights
// against the store; GET on a mutation endpoint goes home.
func AdminRouter(r chi.Router, h *AdminHandler) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Get("/", h.Dashboard)
		r.Get("/users", h.Users)
		r.Get("/messages", h.Messages)
		r.Get("/feedback", h.Feedback)

		r.Post("/feedback/{id}/approve", h.ApproveFeedback)
		r.Post("/feedback/{id}/hide", h.HideFeedback)
		r.Post("/feedback/{id}/delete", h.DeleteFeedback)
		r.Post("/message/{id}/mark-read", h.MarkMessageRead)
		r.Post("/message/{id}/delete", h.DeleteMessage)
		r.Post("/make-admin/{id}", h.MakeAdmin)
		r.Post("/delete-user/{id}", h.DeleteUser)
		r.Post("/toggle-status/{id}", h.ToggleUserStatus)
	})

	for _, pattern := range []string{
		"/feedback/{id}/approve", "/feedback/{id}/hide", "/feedback/{id}/delete",
		"/message/{id}/mark-read", "/message/{id}/delete",
		"/make-admin/{id}", "/delete-user/{id}", "/toggle-status/{id}",
	} {
		r.Get(pattern, redirectHome)
	}
}

// requireAdmin sends anyone who is not an active admin home without detail.
func (h *AdminHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := h.auth.RequireAdmin(r.Context(), session.FromContext(r.Context()))
		if err != nil {
			if !errors.Is(err, services.ErrUnauthorized) {
				logError(r, err, "failed to check admin")
			}
			redirectHome(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), adminContextKey{}, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminFromContext(ctx context.Context) types.User {
	admin, _ := ctx.Value(adminContextKey{}).(types.User)
	return admin
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.admin.Dashboard(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to load dashboard")
		return
	}
	h.render(w, r, http.StatusOK, "admin_dashboard", "Admin", dashboard)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list users")
		return
	}
	data := AdminUsersPage{Users: users, AdminID: adminFromContext(r.Context()).ID}
	h.render(w, r, http.StatusOK, "admin_users", "Users", data)
}

func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.admin.Messages(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list messages")
		return
	}
	h.render(w, r, http.StatusOK, "admin_messages", "Messages", messages)
}

func (h *AdminHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.admin.Feedback(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list feedback")
		return
	}
	h.render(w, r, http.StatusOK, "admin_feedback", "Feedback", feedback)
}

func (h *AdminHandler) ApproveFeedback(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "/admin/feedback", "Feedback", h.admin.ApproveFeedback, "Feedback approved")
}

func (h *AdminHandler) HideFeedback(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "/admin/feedback", "Feedback", h.admin.HideFeedback, "Feedback hidden")
}

func (h *AdminHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "/admin/feedback", "Feedback", h.admin.DeleteFeedback, "Feedback deleted")
}

func (h *AdminHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "/admin/messages", "Message", h.admin.MarkMessageRead, "Message marked as read")
}

func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "/admin/messages", "Message", h.admin.DeleteMessage, "Message deleted")
}

// mutate runs a single-record action and reports the outcome as a flash.
func (h *AdminHandler) mutate(w http.ResponseWriter, r *http.Request, back, entity string, action func(context.Context, int) error, done string) {
	id, err := parseID(r)
	if err != nil {
		h.redirectWithFlash(w, r, back, "error", entity+" not found")
		return
	}
	if err := action(r.Context(), id); err != nil {
		h.actionFailed(w, r, back, entity, err)
		return
	}
	h.redirectWithFlash(w, r, back, "success", done)
}

func (h *AdminHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/users", "error", "User not found")
		return
	}
	user, already, err := h.admin.MakeAdmin(r.Context(), id)
	if err != nil {
		h.actionFailed(w, r, "/admin/users", "User", err)
		return
	}
	if already {
		h.redirectWithFlash(w, r, "/admin/users", "info", fmt.Sprintf("%s is already an admin", user.Username))
		return
	}
	h.redirectWithFlash(w, r, "/admin/users", "success", fmt.Sprintf("%s is now an admin", user.Username))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/users", "error", "User not found")
		return
	}
	target, err := h.admin.DeleteUser(r.Context(), adminFromContext(r.Context()), id)
	if errors.Is(err, services.ErrSelfAction) {
		h.redirectWithFlash(w, r, "/admin/users", "error", "You cannot delete your own account")
		return
	}
	if err != nil {
		h.actionFailed(w, r, "/admin/users", "User", err)
		return
	}
	h.redirectWithFlash(w, r, "/admin/users", "success", fmt.Sprintf("User %s has been deleted", target.Username))
}

func (h *AdminHandler) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/users", "error", "User not found")
		return
	}
	target, err := h.admin.ToggleUserStatus(r.Context(), adminFromContext(r.Context()), id)
	if errors.Is(err, services.ErrSelfAction) {
		h.redirectWithFlash(w, r, "/admin/users", "error", "You cannot deactivate your own account")
		return
	}
	if err != nil {
		h.actionFailed(w, r, "/admin/users", "User", err)
		return
	}
	status := "deactivated"
	if target.IsActive {
		status = "activated"
	}
	h.redirectWithFlash(w, r, "/admin/users", "success", fmt.Sprintf("User %s has been %s", target.Username, status))
}

func (h *AdminHandler) actionFailed(w http.ResponseWriter, r *http.Request, back, entity string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.redirectWithFlash(w, r, back, "error", entity+" not found")
		return
	}
	logError(r, err, "admin action failed")
	h.redirectWithFlash(w, r, back, "error", genericErrorMessage)
}
