package config

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewLogger builds a JSON logger when APP_ENV=production and a console logger otherwise.
func NewLogger(lc fx.Lifecycle) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if envOrDefault("APP_ENV", "development") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

// FxLogger routes fx's own lifecycle events through zap.
func FxLogger(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
}
