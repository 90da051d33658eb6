package cmd

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/folioworks/portfolio/internal/mq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	mu      sync.Mutex
	fail    map[string]error
	watched []string
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	f.mu.Lock()
	f.watched = append(f.watched, channel)
	err := f.fail[channel]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWatchChannelsStopsOnInterrupt(t *testing.T) {
	sub := &fakeSubscriber{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchChannels(ctx, sub, mq.Channels) }()

	require.Eventually(t, func() bool {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		return len(sub.watched) == len(mq.Channels)
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after cancel")
	}
	assert.ElementsMatch(t, mq.Channels, sub.watched)
}

func TestWatchChannelsReturnsFirstFailure(t *testing.T) {
	broken := errors.New("queue gone")
	sub := &fakeSubscriber{fail: map[string]error{mq.FeedbackChannel: broken}}

	done := make(chan error, 1)
	go func() { done <- watchChannels(context.Background(), sub, mq.Channels) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, broken)
	case <-time.After(time.Second):
		t.Fatal("a failing subscription did not stop the others")
	}
}

func TestLogEventIgnoresUndecodable(t *testing.T) {
	handler := logEvent(mq.ContactChannel)
	assert.NoError(t, handler(context.Background(), mq.Message{ID: "1", Data: []byte("not json")}))
	assert.NoError(t, handler(context.Background(), mq.Message{ID: "2", Data: []byte(`{"id":"e1","type":"contact.created","occurred_at":"2026-01-02T03:04:05Z","payload":{"id":1}}`)}))
}
