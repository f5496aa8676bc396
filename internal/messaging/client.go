package messaging

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
)

// Message is one event consumed from the bus.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
	Offset  int64
	Time    time.Time
}

// Handler processes an inbound message. A returned error leaves the message
// uncommitted so it is redelivered.
type Handler func(context.Context, Message) error

// Client is the pluggable event-bus abstraction. Order-created events flow
// through it to the kitchen feed; publishing is always best-effort and never
// gates order creation.
type Client interface {
	Publish(ctx context.Context, key []byte, value []byte) error
	Consume(ctx context.Context, handler Handler) error
	Topic() string
}

// Module wires the messaging client.
var Module = fx.Provide(NewClient)

// NewClient builds a messaging client based on configuration.
func NewClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Client, error) {
	if !cfg.Messaging.Enabled || cfg.Messaging.Driver == "noop" {
		logger.Info("messaging disabled; using noop client")
		return noopClient{topic: cfg.Messaging.Kafka.Topic}, nil
	}
	switch cfg.Messaging.Driver {
	case "kafka":
		return newKafkaClient(lc, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported messaging driver: %s", cfg.Messaging.Driver)
	}
}

// noopClient drops publishes and blocks consumers until cancellation.
type noopClient struct {
	topic string
}

func (n noopClient) Publish(context.Context, []byte, []byte) error { return nil }

func (n noopClient) Consume(ctx context.Context, handler Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (n noopClient) Topic() string { return n.topic }
