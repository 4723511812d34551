package service

import (
	"context"

	"signal_bot/internal/models"
)

// Repository хранит подписки чатов на сигналы.
type Repository interface {
	Save(ctx context.Context, sub models.Subscription) error
	Delete(ctx context.Context, target models.ChatTarget) error
	List(ctx context.Context) ([]models.Subscription, error)
}
