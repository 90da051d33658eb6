package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/folioworks/portfolio/config"
	"github.com/folioworks/portfolio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakeBackend struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakeBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, published{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

func (f *fakeBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	f.mu.Lock()
	sent := append([]published(nil), f.sent...)
	f.mu.Unlock()
	for _, p := range sent {
		if p.channel != channel {
			continue
		}
		if err := handler(ctx, Message{ID: p.attrs[attrEventID], Data: p.data, Attributes: p.attrs}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func TestNotifierPublishesEnvelope(t *testing.T) {
	backend := &fakeBackend{}
	n := NewNotifier(New(backend))

	n.ContactReceived(context.Background(), types.ContactMessage{ID: 7, Name: "Asha", Subject: "Hi"})

	require.Len(t, backend.sent, 1)
	assert.Equal(t, ContactChannel, backend.sent[0].channel)
	assert.Equal(t, ContactCreated, backend.sent[0].attrs[attrEventType])

	evt, err := DecodeEvent(backend.sent[0].data)
	require.NoError(t, err)
	assert.Equal(t, ContactCreated, evt.Type)
	assert.Equal(t, backend.sent[0].attrs[attrEventID], evt.ID)
	assert.Len(t, evt.ID, 36)

	var msg types.ContactMessage
	require.NoError(t, json.Unmarshal(evt.Payload, &msg))
	assert.Equal(t, 7, msg.ID)
	assert.Equal(t, "Asha", msg.Name)
}

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	backend := &fakeBackend{err: errors.New("broker down")}
	n := NewNotifier(New(backend))

	assert.NotPanics(t, func() {
		n.FeedbackReceived(context.Background(), types.Feedback{ID: 1, Rating: 5})
	})
	assert.Empty(t, backend.sent)
}

func TestNotifierPublishSurvivesCanceledRequest(t *testing.T) {
	backend := &fakeBackend{}
	n := NewNotifier(New(backend))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.FeedbackReceived(ctx, types.Feedback{ID: 2})

	require.Len(t, backend.sent, 1)
	assert.Equal(t, FeedbackChannel, backend.sent[0].channel)
}

func TestSubscribeRoundTrip(t *testing.T) {
	backend := &fakeBackend{}
	m := New(backend)
	NewNotifier(m).FeedbackReceived(context.Background(), types.Feedback{ID: 3, Name: "Ravi"})

	var got []Event
	err := m.Subscribe(context.Background(), FeedbackChannel, func(_ context.Context, msg Message) error {
		evt, err := DecodeEvent(msg.Data)
		got = append(got, evt)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, FeedbackCreated, got[0].Type)
}

func TestOpenDisabled(t *testing.T) {
	m, err := Open(context.Background(), config.EventsConfig{})
	assert.NoError(t, err)
	assert.Nil(t, m)

	_, err = Open(context.Background(), config.EventsConfig{Backend: "kafka"})
	assert.Error(t, err)
}
