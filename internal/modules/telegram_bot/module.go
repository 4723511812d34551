package telegram

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/internal/runner"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram,
		),

		// Адаптеры для раннера: куда слать и как форматировать.
		fx.Provide(
			func(t *service.Telegram) runner.Notifier {
				return t
			},
			func() runner.Formatter {
				return service.FormatSignal
			},
		),

		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go t.Start(context.Background())
						return nil
					},
					OnStop: func(context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
