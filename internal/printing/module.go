package printing

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/printer"
	"github.com/TongyunK/orderFood-system/internal/receipt"
	catalogrepo "github.com/TongyunK/orderFood-system/internal/repository/catalog"
	orderrepo "github.com/TongyunK/orderFood-system/internal/repository/order"
	settingsrepo "github.com/TongyunK/orderFood-system/internal/repository/settings"
)

// Module wires the spooler and starts its worker with the app lifecycle.
var Module = fx.Options(
	fx.Provide(func(
		orders *orderrepo.Repository,
		catalog *catalogrepo.Repository,
		settings *settingsrepo.Repository,
		adapter *printer.Adapter,
		cfg config.Config,
		logger *zap.Logger,
	) *Spooler {
		return NewSpooler(
			orders,
			catalog,
			settings,
			adapter,
			cfg.Printer.QueueSize,
			receipt.Encoding(cfg.Printer.Encoding),
			logger,
		)
	}),
	fx.Invoke(func(lc fx.Lifecycle, spooler *Spooler) {
		lc.Append(fx.Hook{
			OnStart: spooler.Start,
			OnStop:  spooler.Stop,
		})
	}),
)
