package runner

import (
	"context"

	"signal_bot/internal/models"
)

// CandleSource — откуда берём список символов и свечи.
type CandleSource interface {
	TopUSDTSymbols(ctx context.Context, n int) ([]string, error)
	Klines(ctx context.Context, symbol, interval string, limit int) (models.CandleSeries, error)
}

// Notifier — куда отправляем сообщения цикла.
type Notifier interface {
	Send(ctx context.Context, target models.ChatTarget, text string) error
	SendPhoto(ctx context.Context, target models.ChatTarget, png []byte, caption string) error
}

// ChartRenderer рисует PNG к сигналу.
type ChartRenderer func(symbol, tf string, series models.CandleSeries, sig models.Signal) ([]byte, error)

// Formatter превращает сигнал в текст сообщения.
type Formatter func(sig models.Signal) string

// SubscriptionStore хранит расписания между рестартами.
type SubscriptionStore interface {
	Save(ctx context.Context, sub models.Subscription) error
	Delete(ctx context.Context, target models.ChatTarget) error
	List(ctx context.Context) ([]models.Subscription, error)
}
