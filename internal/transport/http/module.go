package http

import (
	"go.uber.org/fx"

	menutransport "github.com/TongyunK/orderFood-system/internal/transport/http/menu"
	ordertransport "github.com/TongyunK/orderFood-system/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	menutransport.Module,
)
