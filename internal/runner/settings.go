package runner

import (
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/strategy"
)

// Settings — параметры сканирования и расписания.
type Settings struct {
	TopSymbols int
	Timeframes []string
	KlineLimit int
	Workers    int
	MinScore   int
	Weights    map[string]int

	// границы паузы между циклами
	IntervalMin time.Duration
	IntervalMax time.Duration
}

// SettingsFromConfig: порог сигнала берётся из бюджета, паузы из конфига.
func SettingsFromConfig(cfg *config.Config, budget models.Budget) Settings {
	lo, hi := cfg.IntervalBounds()
	return Settings{
		TopSymbols:  cfg.Scanner.TopSymbols,
		Timeframes:  cfg.Scanner.Timeframes,
		KlineLimit:  cfg.Binance.KlineLimit,
		Workers:     cfg.Binance.Workers,
		MinScore:    budget.MinScore,
		Weights:     strategy.DefaultTimeframeWeights,
		IntervalMin: lo,
		IntervalMax: hi,
	}
}
