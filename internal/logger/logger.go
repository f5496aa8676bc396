package logger

import (
	"context"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TongyunK/orderFood-system/internal/config"
)

// Module exposes a configured Zap logger to the Fx container.
var Module = fx.Provide(New)

// New builds a Zap logger; Fx lifecycle owns the final Sync.
func New(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	obs := cfg.Observability

	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(obs.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if obs.LogEncoding == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg.Encoding = obs.LogEncoding
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
		zapCfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		zapCfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	log = log.With(
		zap.String("service", obs.ServiceName),
		zap.String("environment", obs.Environment),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return log.Sync()
		},
	})

	return log, nil
}
