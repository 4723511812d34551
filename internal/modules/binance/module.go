package binance

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/binance/service"
)

// Module отдаёт REST-клиент Binance для сканера.
func Module() fx.Option {
	return fx.Module("binance",
		fx.Provide(
			service.NewClient,
		),
	)
}
