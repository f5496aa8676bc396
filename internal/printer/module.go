package printer

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
)

// Module provides the printer device and adapter to Fx. The simulated
// device is selected by configuration, never by runtime reflection.
var Module = fx.Options(
	fx.Provide(func(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) *Adapter {
		simulated := !cfg.Printer.Enabled || cfg.Printer.Transport == "sim"
		var dev Device
		if simulated {
			dev = NewSimulated(logger)
		} else {
			dev = NewESCPOS(cfg, logger)
		}
		adapter := NewAdapter(dev, simulated, cfg, logger)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return adapter.Close()
			},
		})
		return adapter
	}),
)
