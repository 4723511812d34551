package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

func TestMemory_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, models.Subscription{Target: "@chan", Quiet: true, CreatedAt: t0.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, models.Subscription{Target: "42", CreatedAt: t0}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.ChatTarget("42"), got[0].Target)
	assert.Equal(t, models.ChatTarget("@chan"), got[1].Target)
	assert.True(t, got[1].Quiet)

	// повторное сохранение меняет режим, но не дату создания
	require.NoError(t, repo.Save(ctx, models.Subscription{Target: "42", Quiet: true, CreatedAt: t0.Add(time.Hour)}))
	got, err = repo.List(ctx)
	require.NoError(t, err)
	assert.True(t, got[0].Quiet)
	assert.Equal(t, t0, got[0].CreatedAt)

	require.NoError(t, repo.Delete(ctx, "42"))
	require.NoError(t, repo.Delete(ctx, "missing"))
	got, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ChatTarget("@chan"), got[0].Target)
}

func TestMemory_KeepsOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	require.NoError(t, repo.Save(ctx, models.Subscription{Target: "@chan", Quiet: true, Owner: "42"}))
	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ChatTarget("42"), got[0].Owner)
}
