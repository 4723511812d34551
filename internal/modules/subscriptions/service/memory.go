package service

import (
	"context"
	"sort"
	"sync"

	"signal_bot/internal/models"
)

// Memory — подписки в памяти процесса; после рестарта пусто.
type Memory struct {
	mu   sync.RWMutex
	data map[models.ChatTarget]models.Subscription
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[models.ChatTarget]models.Subscription),
	}
}

// Save вставляет или перезаписывает подписку; CreatedAt первой записи сохраняется.
func (m *Memory) Save(_ context.Context, sub models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[sub.Target]; ok {
		sub.CreatedAt = old.CreatedAt
	}
	m.data[sub.Target] = sub
	return nil
}

func (m *Memory) Delete(_ context.Context, target models.ChatTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, target)
	return nil
}

// List — по времени создания, затем по цели.
func (m *Memory) List(_ context.Context) ([]models.Subscription, error) {
	m.mu.RLock()
	out := make([]models.Subscription, 0, len(m.data))
	for _, s := range m.data {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}
