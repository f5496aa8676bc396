package sequence

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/repository/settings"
)

// Module provides the sequence allocator to Fx.
var Module = fx.Provide(func(repo *settings.Repository, logger *zap.Logger) *Allocator {
	return NewAllocator(repo, logger)
})
