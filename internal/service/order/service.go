package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/dto"
	"github.com/TongyunK/orderFood-system/internal/entity"
	"github.com/TongyunK/orderFood-system/internal/messaging"
	"github.com/TongyunK/orderFood-system/internal/money"
	"github.com/TongyunK/orderFood-system/internal/printing"
	catalogrepo "github.com/TongyunK/orderFood-system/internal/repository/catalog"
	orderrepo "github.com/TongyunK/orderFood-system/internal/repository/order"
	"github.com/TongyunK/orderFood-system/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/TongyunK/orderFood-system/service/order")

// OrderStore is the slice of the order repository the assembler needs.
type OrderStore interface {
	Create(ctx context.Context, order *entity.Order, lines []*entity.OrderLine) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
}

// Catalog validates order lines and payment methods against live data.
type Catalog interface {
	ActiveItemsByID(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error)
	ActivePaymentMethod(ctx context.Context, id int64) (*entity.PaymentMethod, error)
}

// PrintQueue accepts fire-and-forget print tasks after commit.
type PrintQueue interface {
	Enqueue(task printing.Task) bool
}

// Service assembles kiosk orders: it validates lines against the catalog,
// persists the order atomically with its sequence allocation, and hands the
// receipt off to the background print path.
type Service struct {
	orders    OrderStore
	catalog   Catalog
	queue     PrintQueue
	publisher messaging.Client
	logger    *zap.Logger

	defaultStoreID int64
	publishEvents  bool
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders    *orderrepo.Repository
	Catalog   *catalogrepo.Repository
	Queue     *printing.Spooler
	Publisher messaging.Client
	Config    config.Config
	Logger    *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		orders:         p.Orders,
		catalog:        p.Catalog,
		queue:          p.Queue,
		publisher:      p.Publisher,
		logger:         p.Logger,
		defaultStoreID: p.Config.Store.ID,
		publishEvents:  p.Config.Messaging.Enabled,
	}
}

// Create validates and persists one order. Validation happens entirely
// before the transaction opens; afterwards the order either fully exists
// with its code and sequence, or nothing was written.
func (s *Service) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int("order.lines", len(req.Items)),
		attribute.Int("order.kind", req.OrderKind),
	))
	defer span.End()

	order, lines, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order, lines); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	// The response reports persistence only; printing resolves on its own.
	if !s.queue.Enqueue(printing.Task{OrderID: order.ID}) {
		s.logger.Warn("print queue full; receipt will not print",
			zap.Int64("order_id", order.ID),
			zap.String("code", order.Code),
		)
	}
	s.publishCreated(ctx, order)

	return &dto.CreateOrderResponse{
		Code:          order.Code,
		DailySequence: order.DailySequence,
	}, nil
}

// validate checks the request and builds the unpersisted order and lines.
func (s *Service) validate(ctx context.Context, req dto.CreateOrderRequest) (*entity.Order, []*entity.OrderLine, error) {
	if len(req.Items) == 0 {
		return nil, nil, errorbank.BadRequest("order must contain at least one item")
	}

	kind := entity.OrderKind(req.OrderKind)
	if !kind.Valid() {
		return nil, nil, errorbank.BadRequest(fmt.Sprintf("invalid order kind: %d", req.OrderKind))
	}

	total := req.TotalAmount.String()
	if err := money.Validate(total); err != nil {
		return nil, nil, errorbank.BadRequest("invalid total amount", errorbank.WithDetail("totalAmount", total))
	}

	ids := make([]int64, 0, len(req.Items))
	for i, item := range req.Items {
		if item.CatalogItemID <= 0 {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("item %d: missing catalog item reference", i))
		}
		if item.Quantity <= 0 {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if !money.IsPositive(item.Price.String()) {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("item %d: invalid price", i))
		}
		ids = append(ids, item.CatalogItemID)
	}

	active, err := s.catalog.ActiveItemsByID(ctx, ids)
	if err != nil {
		return nil, nil, errorbank.Internal("failed to load catalog", errorbank.WithCause(err))
	}
	for _, item := range req.Items {
		if _, ok := active[item.CatalogItemID]; !ok {
			// One bad reference rejects the whole order; no partial orders.
			return nil, nil, errorbank.Unprocessable(
				fmt.Sprintf("catalog item %d does not exist or is not active", item.CatalogItemID),
			)
		}
	}

	if req.PaymentMethodID != nil {
		if _, err := s.catalog.ActivePaymentMethod(ctx, *req.PaymentMethodID); err != nil {
			if errors.Is(err, catalogrepo.ErrNotFound) {
				return nil, nil, errorbank.Unprocessable(
					fmt.Sprintf("payment method %d does not exist or is not active", *req.PaymentMethodID),
				)
			}
			return nil, nil, errorbank.Internal("failed to load payment method", errorbank.WithCause(err))
		}
	}

	storeID := req.StoreID
	if storeID <= 0 {
		storeID = s.defaultStoreID
	}

	lines := make([]*entity.OrderLine, 0, len(req.Items))
	for i, item := range req.Items {
		price := item.Price.String()
		subtotal, err := money.Mul(price, item.Quantity)
		if err != nil {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("item %d: invalid price", i))
		}
		lines = append(lines, &entity.OrderLine{
			MenuItemID: item.CatalogItemID,
			Quantity:   item.Quantity,
			UnitPrice:  price,
			Subtotal:   subtotal,
		})
	}

	order := &entity.Order{
		StoreID:         storeID,
		Kind:            kind,
		TotalAmount:     total,
		PaymentMethodID: req.PaymentMethodID,
		Settled:         true, // payment is recorded as already settled
		PrintStatus:     entity.PrintPending,
		CreatedAt:       time.Now(),
	}
	return order, lines, nil
}

// Get retrieves an order by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	return order, nil
}

// OrderCreatedEvent is emitted to the kitchen feed after an order commits.
type OrderCreatedEvent struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	DailySequence int       `json:"dailySequence"`
	OrderKind     int       `json:"orderKind"`
	TotalAmount   string    `json:"totalAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (s *Service) publishCreated(ctx context.Context, order *entity.Order) {
	if !s.publishEvents || s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		ID:            order.ID,
		Code:          order.Code,
		DailySequence: order.DailySequence,
		OrderKind:     int(order.Kind),
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order created event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(order.Code), payload); err != nil {
		s.logger.Error("publish order created event", zap.Error(err))
	}
}
