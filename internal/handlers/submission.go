package handlers

import (
	"errors"
	"net/http"

	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/validate"
	"github.com/go-chi/chi/v5"
)

// SubmissionHandler accepts anonymous contact messages and feedback.
type SubmissionHandler struct {
	submissions *services.SubmissionService
}

func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// SubmissionRouter registers submission routes on the given router.
func SubmissionRouter(r chi.Router, h *SubmissionHandler) {
	postOnly(r, "/submit-connect", h.SubmitConnect)
	postOnly(r, "/submit-feedback", h.SubmitFeedback)
}

func (h *SubmissionHandler) SubmitConnect(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		writeResult(w, false, "Invalid request")
		return
	}

	_, err = h.submissions.SubmitContact(r.Context(), validate.ContactInput{
		Name:    f.get("name"),
		Email:   f.get("email"),
		Subject: f.get("subject"),
		Message: f.get("message"),
	})
	if err != nil {
		h.fail(w, r, err, "failed to store contact message")
		return
	}
	writeResult(w, true, "Thank you for your message! I'll get back to you soon.")
}

func (h *SubmissionHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		writeResult(w, false, "Invalid request")
		return
	}

	_, err = h.submissions.SubmitFeedback(r.Context(), validate.FeedbackInput{
		Name:    f.get("name"),
		Role:    f.get("role"),
		Company: f.get("company"),
		Message: f.get("message"),
		Rating:  f.get("rating"),
	})
	if err != nil {
		h.fail(w, r, err, "failed to store feedback")
		return
	}
	writeResult(w, true, "Thank you for your feedback! It will appear once approved.")
}

func (h *SubmissionHandler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		writeResult(w, false, verr.Message)
		return
	}
	logError(r, err, msg)
	writeResult(w, false, genericErrorMessage)
}
