package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	genericErrorMessage = "Something went wrong. Please try again later."
	maxFormBytes        = 1 << 20
)

// Renderer turns a page model into HTML.
type Renderer interface {
	Render(w io.Writer, name string, page views.Page) error
}

type apiResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeResult(w http.ResponseWriter, success bool, message string) {
	writeJSON(w, http.StatusOK, apiResponse{Success: success, Message: message})
}

// fields is a flattened request body. JSON and form bodies read the same way.
type fields map[string]string

func (f fields) get(key string) string {
	return f[key]
}

func (f fields) lookup(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func (f fields) optional(key string) *string {
	if v, ok := f[key]; ok {
		return &v
	}
	return nil
}

func readFields(w http.ResponseWriter, r *http.Request) (fields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		out := make(fields, len(raw))
		for k, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				out[k] = val
			case float64:
				out[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				out[k] = fmt.Sprint(val)
			}
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	out := make(fields, len(r.PostForm))
	for k, values := range r.PostForm {
		if len(values) > 0 {
			out[k] = values[0]
		}
	}
	return out, nil
}

var errInvalidID = errors.New("invalid id")

func parseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postOnly registers h for POST and sends every GET on pattern back home.
func postOnly(r chi.Router, pattern string, h http.HandlerFunc) {
	r.Post(pattern, h)
	r.Get(pattern, redirectHome)
}

// pages renders HTML with the navigation state and flashes of the request session.
type pages struct {
	views    Renderer
	sessions *session.Manager
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	sess := session.FromContext(r.Context())
	page := views.Page{Title: title, Flashes: sess.PopFlashes(), Data: data}
	if sess.UserID() != 0 {
		page.Viewer = &views.Viewer{
			Username: sess.Data.Username,
			Initial:  sess.Data.Initial,
			IsAdmin:  sess.Data.IsAdmin,
		}
	}
	if err := p.sessions.Save(r.Context(), sess); err != nil {
		log.Warn().Err(err).Msg("failed to save session")
	}

	var buf bytes.Buffer
	if err := p.views.Render(&buf, name, page); err != nil {
		log.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func logError(r *http.Request, err error, msg string) {
	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(msg)
}

func (p pages) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logError(r, err, msg)
	p.render(w, r, http.StatusInternalServerError, "error", "Error", nil)
}

// flash queues a notice on the request session, if there is one.
func (p pages) flash(r *http.Request, category, message string) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		return
	}
	sess.AddFlash(category, message)
	if err := p.sessions.Save(r.Context(), sess); err != nil {
		log.Warn().Err(err).Msg("failed to save flash")
	}
}

func (p pages) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, category, message string) {
	p.flash(r, category, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
