package mq

import (
	"context"
	"fmt"

	"github.com/folioworks/portfolio/config"
)

// Message is one delivered submission event, as seen by `events watch`.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler consumes one event. An error asks the broker to redeliver it.
type Handler func(ctx context.Context, msg Message) error

// Backend is a broker able to carry submission events: RabbitMQ queues or
// Pub/Sub topics, one per channel name.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ is the event bus the Notifier publishes to and the watcher reads from.
type MQ struct {
	backend Backend
}

func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Open builds the backend selected by cfg. It returns nil, nil when events are disabled.
func Open(ctx context.Context, cfg config.EventsConfig) (*MQ, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return New(backend), nil
	case "pubsub":
		backend, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("unsupported events backend %q", cfg.Backend)
	}
}

// Publish sends an encoded event to channel and returns the broker message id.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe blocks, handing each event on channel to handler until ctx is done.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// Close releases the broker connection.
func (m *MQ) Close() error {
	return m.backend.Close()
}
