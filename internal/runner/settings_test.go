package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scanner.TopSymbols = 40
	cfg.Scanner.Timeframes = []string{"5m", "15m"}
	cfg.Scanner.MinScore = 1
	cfg.Scanner.IntervalMin = 30
	cfg.Scanner.IntervalMax = 60
	cfg.Binance.KlineLimit = 300
	cfg.Binance.Workers = 8

	s := SettingsFromConfig(cfg, models.Budget{MinScore: 3})

	assert.Equal(t, 3, s.MinScore)
	assert.Equal(t, 30*time.Second, s.IntervalMin)
	assert.Equal(t, 60*time.Second, s.IntervalMax)
	assert.Equal(t, []string{"5m", "15m"}, s.Timeframes)
	assert.Equal(t, 8, s.Workers)
}
