package handlers

import (
	"errors"
	"net/http"

	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AuthHandler provides the signup, login and logout endpoints.
type AuthHandler struct {
	auth     *services.AuthService
	sessions *session.Manager
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(auth *services.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, h *AuthHandler) {
	postOnly(r, "/signup", h.Signup)
	postOnly(r, "/login", h.Login)
	postOnly(r, "/check-username", h.CheckUsername)
	r.Get("/logout", h.Logout)
}

// Signup creates an account. The caller still has to log in afterwards.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		writeResult(w, false, "Invalid request")
		return
	}

	user, err := h.auth.Signup(r.Context(), validate.SignupInput{
		Email:           f.get("email"),
		Password:        f.get("password"),
		ConfirmPassword: f.optional("confirm_password"),
	})
	if err != nil {
		var verr *validate.Error
		switch {
		case errors.As(err, &verr):
			writeResult(w, false, verr.Message)
		case errors.Is(err, services.ErrEmailTaken):
			writeResult(w, false, "Email already registered")
		case errors.Is(err, services.ErrAlreadyExists):
			writeResult(w, false, "An account with these details already exists. Please try again.")
		default:
			log.Error().Err(err).Str("handler", "signup").Msg("failed to create account")
			writeResult(w, false, genericErrorMessage)
		}
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success:  true,
		Message:  "Account created successfully! Your username is " + user.Username + ". Please log in.",
		Username: user.Username,
	})
}

// Login accepts a username or an email as identifier.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		writeResult(w, false, "Invalid request")
		return
	}

	identifier := f.get("identifier")
	if identifier == "" {
		identifier = f.get("username")
	}
	if identifier == "" {
		identifier = f.get("email")
	}

	user, err := h.auth.Login(r.Context(), identifier, f.get("password"))
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		writeResult(w, false, "Invalid username/email or password")
		return
	case errors.Is(err, services.ErrAccountDeactivated):
		writeResult(w, false, "Your account has been deactivated. Please contact the administrator.")
		return
	case err != nil:
		log.Error().Err(err).Str("handler", "login").Msg("failed to authenticate")
		writeResult(w, false, genericErrorMessage)
		return
	}

	if _, err := h.sessions.Start(r.Context(), w, services.SessionData(user)); err != nil {
		log.Error().Err(err).Str("handler", "login").Msg("failed to start session")
		writeResult(w, false, genericErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success:  true,
		Message:  "Welcome back, " + user.Username + "!",
		Username: user.Username,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, session.FromContext(r.Context())); err != nil {
		log.Warn().Err(err).Str("handler", "logout").Msg("failed to delete session")
	}
	redirectHome(w, r)
}

// CheckUsername answers whether a username is free for the caller.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		writeJSON(w, http.StatusOK, services.UsernameCheck{Message: "Invalid request"})
		return
	}

	check, err := h.auth.CheckUsername(r.Context(), f.get("username"), session.FromContext(r.Context()))
	if err != nil {
		log.Error().Err(err).Str("handler", "check-username").Msg("failed to check username")
		writeJSON(w, http.StatusOK, services.UsernameCheck{Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, check)
}
