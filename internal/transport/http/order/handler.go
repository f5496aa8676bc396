package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/TongyunK/orderFood-system/internal/dto"
	"github.com/TongyunK/orderFood-system/internal/entity"
	"github.com/TongyunK/orderFood-system/internal/presentation/http/response"
	service "github.com/TongyunK/orderFood-system/internal/service/order"
	"github.com/TongyunK/orderFood-system/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/TongyunK/orderFood-system/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.Int("order.lines", len(payload.Items)),
	))
	defer span.End()

	created, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(created).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            order.ID,
		Code:          order.Code,
		StoreID:       order.StoreID,
		OrderKind:     int(order.Kind),
		TotalAmount:   order.TotalAmount,
		Settled:       order.Settled,
		PrintStatus:   string(order.PrintStatus),
		PrintMessage:  order.PrintMessage,
		DailySequence: order.DailySequence,
		CreatedAt:     order.CreatedAt,
	}
}
