// Package kitchen consumes order-created events and surfaces them on the
// kitchen feed. Today the feed is a structured log stream that kitchen
// displays tail; the handler is where a display push would plug in.
package kitchen

import (
	"context"
	"encoding/json"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/entity"
	"github.com/TongyunK/orderFood-system/internal/messaging"
	ordersvc "github.com/TongyunK/orderFood-system/internal/service/order"
	"github.com/TongyunK/orderFood-system/internal/worker"
)

// Module registers the order-created handler with the worker engine.
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			NewHandlerRegistration,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewHandlerRegistration binds the handler to the configured topic.
func NewHandlerRegistration(cfg config.Config, logger *zap.Logger) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: NewHandler(logger),
	}
}

// NewHandler builds the order-created message handler.
func NewHandler(logger *zap.Logger) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		var event ordersvc.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// Malformed payloads are logged and committed; redelivery
			// cannot fix them.
			logger.Error("dropping malformed order event",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return nil
		}

		kind := entity.OrderKind(event.OrderKind)
		if !kind.Valid() {
			// Semantically broken events are as unfixable as malformed ones;
			// returning an error would just redeliver them forever.
			logger.Error("dropping order event with unknown kind",
				zap.String("code", event.Code),
				zap.Int("kind", event.OrderKind),
			)
			return nil
		}

		logger.Info("kitchen feed: new order",
			zap.String("code", event.Code),
			zap.Int("sequence", event.DailySequence),
			zap.String("kind", kind.Label()),
			zap.String("total", event.TotalAmount),
			zap.Time("created_at", event.CreatedAt),
		)
		return nil
	}
}
