package runner

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/chart"
	"signal_bot/internal/models"
	binance "signal_bot/internal/modules/binance/service"
	"signal_bot/internal/modules/config"
	hsvc "signal_bot/internal/modules/health/service"
	subs "signal_bot/internal/modules/subscriptions/service"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
)

// Module собирает цикл сканирования и менеджер расписаний.
// Notifier и Formatter приходят из модуля telegram.
func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			SettingsFromConfig,
			func(b models.Budget) *strategy.Evaluator {
				return strategy.NewEvaluator(strategy.ParamsFromBudget(b))
			},
			func(c *binance.Client) CandleSource { return c },
			func(r subs.Repository) SubscriptionStore { return r },
			func() ChartRenderer { return chart.Render },
			NewCycle,
			NewManager,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			m *Manager,
			n Notifier,
			cfg *config.Config,
			state *hsvc.State,
		) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := m.Restore(ctx, n, cfg.Telegram.ChannelID); err != nil {
						// без сохранённых подписок бот всё равно работает по командам
						logger.Error("[RUNNER] restore subscriptions: %v", err)
					}
					state.SetReady(true)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					state.SetReady(false)
					m.Stop()
					return nil
				},
			})
		}),
	)
}
