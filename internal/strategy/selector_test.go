package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

func cand(symbol, tf string, score int, reasons ...string) models.Signal {
	return models.Signal{Symbol: symbol, Timeframe: tf, Score: score, Reasons: reasons}
}

func TestPickBest_Empty(t *testing.T) {
	_, ok := PickBest(nil, DefaultTimeframeWeights)
	assert.False(t, ok)
}

func TestPickBest_Ranking(t *testing.T) {
	tests := []struct {
		name  string
		batch []models.Signal
		want  string
	}{
		{
			name: "higher score wins",
			batch: []models.Signal{
				cand("A", "15m", 3, "2.5x vol"),
				cand("B", "5m", 4),
			},
			want: "B",
		},
		{
			name: "spike breaks score tie",
			batch: []models.Signal{
				cand("A", "15m", 3),
				cand("B", "5m", 3, "MACD>signal", "1.7x vol"),
			},
			want: "B",
		},
		{
			name: "timeframe weight breaks tie",
			batch: []models.Signal{
				cand("A", "5m", 3),
				cand("B", "15m", 3),
				cand("C", "30m", 3),
			},
			want: "B",
		},
		{
			name: "first seen on full tie",
			batch: []models.Signal{
				cand("A", "5m", 2),
				cand("B", "30m", 2),
			},
			want: "A",
		},
		{
			name: "unknown timeframe weighs zero",
			batch: []models.Signal{
				cand("A", "1h", 2),
				cand("B", "30m", 2),
			},
			want: "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickBest(tt.batch, DefaultTimeframeWeights)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Symbol)
		})
	}
}

func TestPickBest_Deterministic(t *testing.T) {
	batch := []models.Signal{
		cand("A", "5m", 2),
		cand("B", "15m", 4, "2.0x vol"),
		cand("C", "15m", 4, "2.0x vol"),
		cand("D", "30m", 1),
	}
	for i := 0; i < 20; i++ {
		got, ok := PickBest(batch, nil)
		require.True(t, ok)
		assert.Equal(t, "B", got.Symbol)
	}
}

func TestSuppress(t *testing.T) {
	batch := []models.Signal{
		cand("BTCUSDT", "5m", 4),
		cand("ETHUSDT", "5m", 3),
		cand("BTCUSDT", "15m", 5),
	}

	assert.Equal(t, batch, Suppress(batch, ""))

	got := Suppress(batch, "BTCUSDT")
	require.Len(t, got, 1)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)

	best, ok := PickBest(got, DefaultTimeframeWeights)
	require.True(t, ok)
	assert.Equal(t, "ETHUSDT", best.Symbol)

	assert.Empty(t, Suppress([]models.Signal{cand("BTCUSDT", "5m", 1)}, "BTCUSDT"))
}

func TestHasVolumeSpike(t *testing.T) {
	assert.True(t, HasVolumeSpike(cand("A", "5m", 1, "12.3x vol")))
	assert.False(t, HasVolumeSpike(cand("A", "5m", 1, "MACD>signal")))
	assert.False(t, HasVolumeSpike(models.Signal{}))
}
