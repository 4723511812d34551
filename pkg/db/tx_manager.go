package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxFunc выполняется внутри транзакции; ошибка или паника откатывают её.
type TxFunc func(ctxTx context.Context, tx pgx.Tx) error

// TxManager — транзакции и одиночные запросы поверх пула.
type TxManager interface {
	// RunMaster — запись, read committed.
	RunMaster(ctx context.Context, fn TxFunc) error
	// RunReadOnly — согласованное чтение одним снимком.
	RunReadOnly(ctx context.Context, fn TxFunc) error
	// Conn — запросы без транзакции (DDL, одиночный DELETE).
	Conn() Querier
}

// Querier — общее у пула и pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
