package config

import (
	"go.uber.org/fx"

	"signal_bot/internal/models"
)

// Module отдаёт уже загруженный *Config и производный от него models.Budget.
// Конфиг грузится до fx: по нему настраиваются логгер и трейсинг.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			func(c *Config) models.Budget { return c.Budget() },
		),
	)
}
