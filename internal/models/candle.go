package models

import (
	"math"
	"time"
)

// Candle — одна свеча OHLCV. Непарсящееся числовое поле хранится как NaN.
type Candle struct {
	OpenTime  time.Time
	CloseTime time.Time

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandleSeries — свечи одного символа/таймфрейма по возрастанию времени.
type CandleSeries []Candle

func (s CandleSeries) Highs() []float64   { return s.column(func(c Candle) float64 { return c.High }) }
func (s CandleSeries) Lows() []float64    { return s.column(func(c Candle) float64 { return c.Low }) }
func (s CandleSeries) Closes() []float64  { return s.column(func(c Candle) float64 { return c.Close }) }
func (s CandleSeries) Volumes() []float64 { return s.column(func(c Candle) float64 { return c.Volume }) }

func (s CandleSeries) column(get func(Candle) float64) []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = get(c)
	}
	return out
}

// HasMissingClose — есть ли свеча без цены закрытия.
func (s CandleSeries) HasMissingClose() bool {
	for _, c := range s {
		if math.IsNaN(c.Close) || math.IsInf(c.Close, 0) {
			return true
		}
	}
	return false
}

// Ordered проверяет строгое возрастание OpenTime (без дублей).
func (s CandleSeries) Ordered() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].OpenTime.After(s[i-1].OpenTime) {
			return false
		}
	}
	return true
}
