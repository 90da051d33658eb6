package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/folioworks/portfolio/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ContactChannel carries contact_message.created events.
	ContactChannel = "portfolio.contact_messages"
	// FeedbackChannel carries feedback.created events.
	FeedbackChannel = "portfolio.feedback"

	ContactCreated  = "contact_message.created"
	FeedbackCreated = "feedback.created"

	attrEventID   = "event_id"
	attrEventType = "event_type"

	defaultPublishTimeout = 3 * time.Second
)

// Channels lists every channel the site publishes to.
var Channels = []string{ContactChannel, FeedbackChannel}

// Event is the envelope published for each new submission.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// DecodeEvent parses an envelope produced by Notifier.
func DecodeEvent(data []byte) (Event, error) {
	var evt Event
	err := json.Unmarshal(data, &evt)
	return evt, err
}

// Notifier publishes submission events. Failures are logged and swallowed.
type Notifier struct {
	mq      *MQ
	timeout time.Duration
	logger  zerolog.Logger
}

func NewNotifier(m *MQ) *Notifier {
	return &Notifier{
		mq:      m,
		timeout: defaultPublishTimeout,
		logger:  log.With().Str("component", "events").Logger(),
	}
}

func (n *Notifier) ContactReceived(ctx context.Context, msg types.ContactMessage) {
	n.publish(ctx, ContactChannel, ContactCreated, msg)
}

func (n *Notifier) FeedbackReceived(ctx context.Context, fb types.Feedback) {
	n.publish(ctx, FeedbackChannel, FeedbackCreated, fb)
}

func (n *Notifier) publish(ctx context.Context, channel, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error().Err(err).Str("type", eventType).Msg("encode event payload")
		return
	}
	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: types.Now(),
		Payload:    raw,
	}
	data, err := json.Marshal(evt)
	if err != nil {
		n.logger.Error().Err(err).Str("type", eventType).Msg("encode event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	id, err := n.mq.Publish(ctx, channel, data, map[string]string{
		attrEventID:   evt.ID,
		attrEventType: eventType,
	})
	if err != nil {
		n.logger.Warn().Err(err).Str("channel", channel).Str("event_id", evt.ID).Msg("publish event failed")
		return
	}
	n.logger.Debug().Str("channel", channel).Str("event_id", evt.ID).Str("message_id", id).Msg("event published")
}
