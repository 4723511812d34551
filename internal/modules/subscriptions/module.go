package subscriptions

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/subscriptions/service"
	"signal_bot/pkg/db"
)

// Module отдаёт service.Repository: Postgres, если есть пул, иначе память.
func Module() fx.Option {
	return fx.Module("subscriptions",
		fx.Provide(
			func(ctx context.Context, tm *db.PgTxManager) (service.Repository, error) {
				if tm == nil {
					return service.NewMemory(), nil
				}
				repo := service.NewPG(tm)
				if err := repo.EnsureSchema(ctx); err != nil {
					return nil, err
				}
				return repo, nil
			},
		),
	)
}
