package kitchen

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/messaging"
	ordersvc "github.com/TongyunK/orderFood-system/internal/service/order"
)

func TestHandlerAcceptsWellFormedEvent(t *testing.T) {
	handler := NewHandler(zap.NewNop())

	payload, err := json.Marshal(ordersvc.OrderCreatedEvent{
		ID:            7,
		Code:          "D00120260829120000420001",
		DailySequence: 1,
		OrderKind:     0,
		TotalAmount:   "25.00",
		CreatedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	msg := messaging.Message{Topic: "orders.created", Value: payload}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("handler: %v", err)
	}
}

func TestHandlerDropsMalformedPayload(t *testing.T) {
	handler := NewHandler(zap.NewNop())

	msg := messaging.Message{Topic: "orders.created", Value: []byte("{broken")}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("malformed payloads must commit, got error: %v", err)
	}
}

func TestHandlerDropsUnknownKind(t *testing.T) {
	handler := NewHandler(zap.NewNop())

	// An unknown kind never becomes valid on redelivery; the handler must
	// commit it rather than leave it poisoning the partition.
	payload, _ := json.Marshal(ordersvc.OrderCreatedEvent{Code: "X", OrderKind: 9})
	msg := messaging.Message{Topic: "orders.created", Value: payload}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unknown kind must commit, got error: %v", err)
	}
}
