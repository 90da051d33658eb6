package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/folioworks/portfolio/internal/storage"
	"github.com/go-chi/chi/v5"
)

// MediaStore opens stored media objects.
type MediaStore interface {
	Open(ctx context.Context, key string) (storage.Object, error)
}

// MediaHandler streams objects from the configured media bucket.
type MediaHandler struct {
	store MediaStore
}

func NewMediaHandler(store MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// MediaRouter registers the media route on the given router.
func MediaRouter(r chi.Router, h *MediaHandler) {
	r.Get("/*", h.Serve)
}

func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := path.Clean("/" + chi.URLParam(r, "*"))
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." {
		http.NotFound(w, r)
		return
	}

	obj, err := h.store.Open(r.Context(), key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logError(r, err, "failed to open media object")
		http.Error(w, genericErrorMessage, http.StatusBadGateway)
		return
	}
	defer obj.Body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = obj.ContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj.Body)
}
