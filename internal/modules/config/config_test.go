package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", " 123:abc ")
	t.Setenv("TIMEFRAMES", "5m, 1h,,4h")
	t.Setenv("TOP_SYMBOLS", "25")
	t.Setenv("BUDGET_USDT", "250.5")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, []string{"5m", "1h", "4h"}, cfg.Scanner.Timeframes)
	assert.Equal(t, 25, cfg.Scanner.TopSymbols)
	assert.Equal(t, 250.5, cfg.Risk.BudgetUSDT)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.5, cfg.Risk.ATRSLMult)
	assert.Equal(t, 2.0, cfg.Risk.ATRTPMult)

	b := cfg.Budget()
	assert.Equal(t, 250.5, b.TotalUSDT)
	assert.Equal(t, cfg.Scanner.MinScore, b.MinScore)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeYAML(t, `
telegram:
  token: from-file
scanner:
  top_symbols: 10
  timeframes: [15m]
  min_score: 3
  interval_min: 5
  interval_max: 9
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("MIN_SCORE", "2")

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.Equal(t, 10, cfg.Scanner.TopSymbols)
	assert.Equal(t, []string{"15m"}, cfg.Scanner.Timeframes)
	assert.Equal(t, 2, cfg.Scanner.MinScore)

	lo, hi := cfg.IntervalBounds()
	assert.Equal(t, 5*time.Second, lo)
	assert.Equal(t, 9*time.Second, hi)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no token", map[string]string{"TELEGRAM_BOT_TOKEN": ""}},
		{"interval max below min", map[string]string{"SIGNAL_INTERVAL_MIN": "60", "SIGNAL_INTERVAL_MAX": "30"}},
		{"zero interval", map[string]string{"SIGNAL_INTERVAL_MIN": "0", "SIGNAL_INTERVAL_MAX": "0"}},
		{"no timeframes", map[string]string{"TIMEFRAMES": " , "}},
		{"zero workers", map[string]string{"FETCH_WORKERS": "0"}},
		{"not a number", map[string]string{"TOP_SYMBOLS": "forty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "token")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
			assert.Error(t, err)
		})
	}
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.Error(t, err)
}

func TestSummary_HidesSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "secret-token")
	t.Setenv("DATABASE_DSN", "postgres://u:p@h/db")
	t.Setenv("CHANNEL_ID", "@signals")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	s := cfg.Summary()
	assert.Contains(t, s, "TIMEFRAMES=5m,15m,30m")
	assert.Contains(t, s, "CHANNEL_ID=@signals")
	assert.NotContains(t, s, "secret-token")
	assert.NotContains(t, s, "postgres://")
}

func TestLoadOffline_NoTokenNeeded(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TOP_SYMBOLS", "5")

	cfg, err := LoadOffline(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Empty(t, cfg.Telegram.Token)
	assert.Equal(t, 5, cfg.Scanner.TopSymbols)

	t.Setenv("SIGNAL_INTERVAL_MIN", "60")
	t.Setenv("SIGNAL_INTERVAL_MAX", "30")
	_, err = LoadOffline(filepath.Join(t.TempDir(), "missing.yaml"), false)
	assert.Error(t, err)
}

func TestNormTimeframes(t *testing.T) {
	assert.Equal(t, []string{"15m", "1h", "1M", "4h"}, NormTimeframes([]string{" 15M", "60m", "1h", "1M", "", "240m"}))
	assert.Equal(t, "1d", NormTF("24H"))
}

func TestLoad_UnknownTimeframe(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TIMEFRAMES", "5m,7m")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	assert.Error(t, err)

	t.Setenv("TIMEFRAMES", "5M,60m")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"5m", "1h"}, cfg.Scanner.Timeframes)
}
