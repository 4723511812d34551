package main

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/binance"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/subscriptions"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

const serviceName = "signal_bot"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("config: %v", err)
	}
	if err := logger.Init(cfg.Service.LogLevel); err != nil {
		logger.Fatal("logger: %v", err)
	}
	defer logger.Sync()
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.JaegerHost,
		Port:    cfg.Tracing.JaegerPort,
	})
	if err != nil {
		logger.Fatal("tracing: %v", err)
	}
	defer closeTracer()

	logger.Info("starting bot, timeframes=%v top=%d", cfg.Scanner.Timeframes, cfg.Scanner.TopSymbols)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(cfg),
		postgres.Module(),
		subscriptions.Module(),
		binance.Module(),
		health.Module(),
		runner.Module(),
		telegram.Module(),
	)
	app.Run()
}
