package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
)

// kafkaClient implements Client via kafka-go.
type kafkaClient struct {
	writer *kafka.Writer
	reader *kafka.Reader
	topic  string
	logger *zap.Logger
}

func newKafkaClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Client, error) {
	kcfg := cfg.Messaging.Kafka

	writer := &kafka.Writer{
		Addr:         kafka.TCP(kcfg.Brokers...),
		Topic:        kcfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
		Logger:       kafkaLogger{logger: logger},
		ErrorLogger:  kafkaLogger{logger: logger},
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        kcfg.Brokers,
		GroupID:        cfg.Messaging.ConsumerGroup,
		Topic:          kcfg.Topic,
		MinBytes:       kcfg.MinBytes,
		MaxBytes:       kcfg.MaxBytes,
		CommitInterval: kcfg.CommitInterval,
		Dialer: &kafka.Dialer{
			Timeout:  kcfg.ConnectTimeout,
			ClientID: kcfg.ClientID,
		},
	})

	client := &kafkaClient{writer: writer, reader: reader, topic: kcfg.Topic, logger: logger}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing kafka client")
			if err := writer.Close(); err != nil {
				return err
			}
			return reader.Close()
		},
	})

	return client, nil
}

func (k *kafkaClient) Publish(ctx context.Context, key []byte, value []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (k *kafkaClient) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			k.logger.Error("kafka fetch failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		wrapped := Message{
			Topic:  msg.Topic,
			Key:    append([]byte(nil), msg.Key...),
			Value:  append([]byte(nil), msg.Value...),
			Offset: msg.Offset,
			Time:   msg.Time,
		}
		if len(msg.Headers) > 0 {
			wrapped.Headers = make(map[string]string, len(msg.Headers))
			for _, h := range msg.Headers {
				wrapped.Headers[h.Key] = string(h.Value)
			}
		}

		if err := handler(ctx, wrapped); err != nil {
			k.logger.Error("message handler failed", zap.Error(err), zap.Int64("offset", msg.Offset))
			// Skip commit so the message is retried.
			continue
		}

		if err := k.reader.CommitMessages(ctx, msg); err != nil {
			k.logger.Warn("commit failed", zap.Error(err))
		}
	}
}

func (k *kafkaClient) Topic() string { return k.topic }

type kafkaLogger struct {
	logger *zap.Logger
}

func (k kafkaLogger) Printf(msg string, args ...interface{}) {
	k.logger.Sugar().Debugf(msg, args...)
}
