package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS subscriptions (
	target     TEXT PRIMARY KEY,
	quiet      BOOLEAN NOT NULL DEFAULT FALSE,
	owner      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	// таблицы, созданные до появления владельца
	migrateOwnerSQL = `ALTER TABLE subscriptions ADD COLUMN IF NOT EXISTS owner TEXT NOT NULL DEFAULT ''`

	upsertSQL = `INSERT INTO subscriptions (target, quiet, owner, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (target) DO UPDATE SET quiet = EXCLUDED.quiet, owner = EXCLUDED.owner`

	deleteSQL = `DELETE FROM subscriptions WHERE target = $1`

	listSQL = `SELECT target, quiet, owner, created_at FROM subscriptions ORDER BY created_at, target`
)

// PG — подписки в Postgres.
type PG struct {
	db db.TxManager
}

func NewPG(tm db.TxManager) *PG {
	return &PG{db: tm}
}

// EnsureSchema создаёт таблицу, если её нет.
func (p *PG) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{schemaSQL, migrateOwnerSQL} {
		if _, err := p.db.Conn().Exec(ctx, q); err != nil {
			return errors.Wrap(err, "pg.EnsureSchema")
		}
	}
	return nil
}

func (p *PG) Save(ctx context.Context, sub models.Subscription) error {
	err := p.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, upsertSQL, string(sub.Target), sub.Quiet, string(sub.Owner), sub.CreatedAt)
		return err
	})
	return errors.Wrap(err, "pg.Save")
}

func (p *PG) Delete(ctx context.Context, target models.ChatTarget) error {
	_, err := p.db.Conn().Exec(ctx, deleteSQL, string(target))
	return errors.Wrap(err, "pg.Delete")
}

func (p *PG) List(ctx context.Context) ([]models.Subscription, error) {
	var out []models.Subscription
	err := p.db.RunReadOnly(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, listSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				s             models.Subscription
				target, owner string
			)
			if err := rows.Scan(&target, &s.Quiet, &owner, &s.CreatedAt); err != nil {
				return errors.Wrap(err, "scan")
			}
			s.Target = models.ChatTarget(target)
			s.Owner = models.ChatTarget(owner)
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "pg.List")
	}
	return out, nil
}
