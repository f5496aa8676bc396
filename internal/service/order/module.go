package order

import "go.uber.org/fx"

// Module provides the order service.
var Module = fx.Options(
	fx.Provide(NewService),
)
