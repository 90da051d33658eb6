package services

import (
	"context"

	"github.com/folioworks/portfolio/internal/validate"
	"github.com/folioworks/portfolio/types"
)

const connectFeedbackLimit = 2

// ContactRepository defines persistence operations for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error)
	GetByID(ctx context.Context, id int) (types.ContactMessage, error)
	List(ctx context.Context) ([]types.ContactMessage, error)
	MarkRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

// FeedbackRepository defines persistence operations for feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb types.Feedback) (types.Feedback, error)
	GetByID(ctx context.Context, id int) (types.Feedback, error)
	List(ctx context.Context) ([]types.Feedback, error)
	ListApproved(ctx context.Context, limit int) ([]types.Feedback, error)
	SetApproved(ctx context.Context, id int, approved bool) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

// Notifier is told about new submissions after they are committed.
// Implementations must not block for long and handle their own failures.
type Notifier interface {
	ContactReceived(ctx context.Context, msg types.ContactMessage)
	FeedbackReceived(ctx context.Context, fb types.Feedback)
}

type nopNotifier struct{}

func (nopNotifier) ContactReceived(context.Context, types.ContactMessage) {}
func (nopNotifier) FeedbackReceived(context.Context, types.Feedback)      {}

// SubmissionService accepts anonymous contact messages and feedback.
type SubmissionService struct {
	contacts ContactRepository
	feedback FeedbackRepository
	tx       Transactor
	notifier Notifier
}

// NewSubmissionService constructs the service. A nil notifier disables notifications.
func NewSubmissionService(contacts ContactRepository, feedback FeedbackRepository, tx Transactor, notifier Notifier) *SubmissionService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &SubmissionService{contacts: contacts, feedback: feedback, tx: tx, notifier: notifier}
}

func (s *SubmissionService) SubmitContact(ctx context.Context, in validate.ContactInput) (types.ContactMessage, error) {
	msg, err := validate.Contact(in)
	if err != nil {
		return types.ContactMessage{}, err
	}
	msg.CreatedAt = types.Now()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		msg, err = s.contacts.Create(ctx, msg)
		return err
	})
	if err != nil {
		return types.ContactMessage{}, err
	}
	s.notifier.ContactReceived(ctx, msg)
	return msg, nil
}

func (s *SubmissionService) SubmitFeedback(ctx context.Context, in validate.FeedbackInput) (types.Feedback, error) {
	fb, err := validate.Feedback(in)
	if err != nil {
		return types.Feedback{}, err
	}
	fb.CreatedAt = types.Now()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		fb, err = s.feedback.Create(ctx, fb)
		return err
	})
	if err != nil {
		return types.Feedback{}, err
	}
	s.notifier.FeedbackReceived(ctx, fb)
	return fb, nil
}

// ApprovedFeedback returns the newest approved entries for the connect page.
func (s *SubmissionService) ApprovedFeedback(ctx context.Context) ([]types.Feedback, error) {
	return s.feedback.ListApproved(ctx, connectFeedbackLimit)
}
