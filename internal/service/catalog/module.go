package catalog

import "go.uber.org/fx"

// Module provides the catalog service.
var Module = fx.Options(
	fx.Provide(NewService),
)
