package menu

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/TongyunK/orderFood-system/internal/presentation/http/response"
	service "github.com/TongyunK/orderFood-system/internal/service/catalog"
)

var httpTracer = otel.Tracer("github.com/TongyunK/orderFood-system/transport/http/menu")

// Handler exposes the menu listing over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a menu Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/menu", h.list)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.list")
	defer span.End()

	items, err := h.svc.Menu(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(items).Build()
}
