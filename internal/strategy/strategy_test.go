package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

var testStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func testParams() Params {
	return Params{BudgetUSDT: 100, ATRStopMult: 1.5, ATRTargetMult: 2.0}
}

func seriesOf(h, l, c, v []float64) models.CandleSeries {
	out := make(models.CandleSeries, len(c))
	for i := range c {
		open := testStart.Add(time.Duration(i) * 15 * time.Minute)
		out[i] = models.Candle{
			OpenTime:  open,
			CloseTime: open.Add(15*time.Minute - time.Millisecond),
			Open:      c[i],
			High:      h[i],
			Low:       l[i],
			Close:     c[i],
			Volume:    v[i],
		}
	}
	return out
}

func spikeVolumes(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 90
	}
	v[n-1] = 190
	return v
}

// risingSeries — плавный рост на 1% за бар с объёмным всплеском в конце.
func risingSeries(n int) models.CandleSeries {
	h, l, c := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range c {
		c[i] = 100 * math.Pow(1.01, float64(i))
		h[i] = c[i] * 1.002
		l[i] = c[i] * 0.998
	}
	return seriesOf(h, l, c, spikeVolumes(n))
}

// pullbackSeries — рост, затем долгий медленный откат с расширяющимся high
// и отскок на последнем баре. Все четыре правила голосуют за LONG.
func pullbackSeries() (h, l, c []float64) {
	const n = 150
	h, l, c = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < 40; i++ {
		c[i] = 100 + float64(i)
		h[i] = c[i] + 3
		l[i] = c[i] - 3
	}
	for i := 40; i < n-1; i++ {
		c[i] = c[i-1] - 0.1
		h[i] = h[i-1] + 0.5
		l[i] = c[i] - 3
	}
	c[n-1] = c[n-2] + 0.3
	h[n-1] = h[n-2] + 0.5
	l[n-1] = l[n-2]
	return h, l, c
}

func flatSeries(n int, price float64) models.CandleSeries {
	p := make([]float64, n)
	v := make([]float64, n)
	for i := range p {
		p[i] = price
		v[i] = 90
	}
	return seriesOf(p, p, p, v)
}

func TestEvaluate_TooShort(t *testing.T) {
	ev := NewEvaluator(testParams())

	_, ok := ev.Evaluate("BTCUSDT", "15m", risingSeries(MinCandles-1))
	assert.False(t, ok)

	_, ok = ev.Evaluate("BTCUSDT", "15m", risingSeries(MinCandles))
	assert.True(t, ok)
}

func TestEvaluate_MissingClose(t *testing.T) {
	s := risingSeries(120)
	s[57].Close = math.NaN()

	_, ok := NewEvaluator(testParams()).Evaluate("BTCUSDT", "15m", s)
	assert.False(t, ok)
}

func TestEvaluate_ZeroATR(t *testing.T) {
	_, ok := NewEvaluator(testParams()).Evaluate("BTCUSDT", "15m", flatSeries(150, 100))
	assert.False(t, ok)
}

func TestEvaluate_RisingTrend(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	ev := NewEvaluator(testParams()).WithClock(func() time.Time { return fixed })

	sig, ok := ev.Evaluate("ETHUSDT", "15m", risingSeries(150))
	require.True(t, ok)

	assert.Equal(t, "ETHUSDT", sig.Symbol)
	assert.Equal(t, "15m", sig.Timeframe)
	assert.Equal(t, models.SideLong, sig.Side)
	// RSI на монотонном росте около 100 и голосует за SHORT, поэтому максимум 4.
	assert.Equal(t, 4, sig.Score)
	assert.Equal(t, []string{"MACD>signal", "ST up", "ADX>20 & +DI", "2.0x vol"}, sig.Reasons)
	assert.Equal(t, models.StrengthStrong, sig.Strength)
	assert.InDelta(t, 440.4379105, sig.Entry, 1e-8)
	assert.InDelta(t, 433.06193564, sig.StopLoss, 1e-6)
	assert.InDelta(t, 450.27254365, sig.TakeProfit, 1e-6)
	assert.Equal(t, 12.0, sig.RecommendedUSD)
	assert.Equal(t, fixed.UTC(), sig.CreatedAt)
	assert.Equal(t, time.UTC, sig.CreatedAt.Location())
}

func TestEvaluate_AllLongRules(t *testing.T) {
	h, l, c := pullbackSeries()
	sig, ok := NewEvaluator(testParams()).Evaluate("SOLUSDT", "5m", seriesOf(h, l, c, spikeVolumes(len(c))))
	require.True(t, ok)

	assert.Equal(t, models.SideLong, sig.Side)
	assert.Equal(t, 5, sig.Score)
	assert.Equal(t, []string{"MACD>signal", "RSI<35", "ST up", "ADX>20 & +DI", "2.0x vol"}, sig.Reasons)
	assert.InDelta(t, 128.4, sig.Entry, 1e-8)
	assert.InDelta(t, 26.26071429, sig.StopLoss, 1e-6)
	assert.InDelta(t, 264.58571429, sig.TakeProfit, 1e-6)
	assert.Equal(t, 12.0, sig.RecommendedUSD)
}

func TestEvaluate_AllShortRules(t *testing.T) {
	// Зеркалим откат относительно 300: high и low меняются местами.
	const k = 300.0
	h, l, c := pullbackSeries()
	mh, ml, mc := make([]float64, len(c)), make([]float64, len(c)), make([]float64, len(c))
	for i := range c {
		mc[i] = k - c[i]
		mh[i] = k - l[i]
		ml[i] = k - h[i]
	}

	sig, ok := NewEvaluator(testParams()).Evaluate("SOLUSDT", "5m", seriesOf(mh, ml, mc, spikeVolumes(len(c))))
	require.True(t, ok)

	assert.Equal(t, models.SideShort, sig.Side)
	assert.Equal(t, 5, sig.Score)
	assert.Equal(t, []string{"MACD<signal", "RSI>65", "ST down", "ADX>20 & -DI", "2.0x vol"}, sig.Reasons)
	assert.InDelta(t, 171.6, sig.Entry, 1e-8)
	assert.InDelta(t, 273.73928571, sig.StopLoss, 1e-6)
	assert.InDelta(t, 35.41428571, sig.TakeProfit, 1e-6)
	assert.Less(t, sig.TakeProfit, sig.Entry)
	assert.Less(t, sig.Entry, sig.StopLoss)
}

func TestEvaluate_NoSpikeWithoutVolume(t *testing.T) {
	s := risingSeries(150)
	s[len(s)-1].Volume = 90

	sig, ok := NewEvaluator(testParams()).Evaluate("ETHUSDT", "15m", s)
	require.True(t, ok)
	assert.Equal(t, 3, sig.Score)
	assert.False(t, HasVolumeSpike(sig))
	assert.Equal(t, models.StrengthMedium, sig.Strength)
}

func TestVote_SpikeGoesToLeader(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		snap    snapshot
		side    models.Side
		reasons []string
	}{
		{
			name:    "tie goes long",
			snap:    snapshot{macd: 1, macdSignal: 2, rsi: 20, adx: nan, plusDI: nan, minusDI: nan, spike: 1.5},
			side:    models.SideLong,
			reasons: []string{"RSI<35", "1.5x vol"},
		},
		{
			name:    "short leader",
			snap:    snapshot{macd: 1, macdSignal: 2, rsi: 50, adx: 30, plusDI: 10, minusDI: 20, spike: 3.04},
			side:    models.SideShort,
			reasons: []string{"MACD<signal", "ADX>20 & -DI", "3.0x vol"},
		},
		{
			name:    "undefined indicators",
			snap:    snapshot{macd: nan, macdSignal: nan, rsi: nan, adx: nan, plusDI: nan, minusDI: nan, spike: 1},
			side:    models.SideShort,
			reasons: []string{"MACD<signal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vote(tt.snap)
			assert.Equal(t, tt.side, got.side)
			assert.Equal(t, tt.reasons, got.reasons())
			assert.Equal(t, len(tt.reasons), got.score())
		})
	}
}

func TestPriceLevels(t *testing.T) {
	p := testParams()

	lv, ok := priceLevels(models.SideLong, 100, 2, p)
	require.True(t, ok)
	assert.Equal(t, levels{entry: 100, stop: 97, target: 104}, lv)

	lv, ok = priceLevels(models.SideShort, 100, 2, p)
	require.True(t, ok)
	assert.Equal(t, levels{entry: 100, stop: 103, target: 96}, lv)

	_, ok = priceLevels(models.SideLong, 100, 0, p)
	assert.False(t, ok)
	_, ok = priceLevels(models.SideLong, 100, math.NaN(), p)
	assert.False(t, ok)

	// Стоп ниже нуля прижимается к минимальной цене.
	lv, ok = priceLevels(models.SideLong, 1, 10, p)
	require.True(t, ok)
	assert.Equal(t, minPrice, lv.stop)

	// Шаг ATR меньше точности округления: цены слипаются.
	_, ok = priceLevels(models.SideLong, 0.5, 1e-10, p)
	assert.False(t, ok)
}

func TestRecommendSize(t *testing.T) {
	tests := []struct {
		score  int
		budget float64
		want   float64
	}{
		{0, 100, 5},
		{0, 1000, 30},
		{1, 1000, 50},
		{2, 1000, 80},
		{3, 1000, 100},
		{4, 1000, 120},
		{5, 1000, 120},
		{9, 1000, 120},
		{5, 10, 5},
		{3, 333.33, 33.33},
	}
	for _, tt := range tests {
		got := RecommendSize(tt.score, tt.budget)
		assert.Equal(t, tt.want, got, "score=%d budget=%v", tt.score, tt.budget)
		assert.GreaterOrEqual(t, got, 5.0)
	}
}

func TestStrengthFor(t *testing.T) {
	assert.Equal(t, models.StrengthWeak, StrengthFor(0))
	assert.Equal(t, models.StrengthWeak, StrengthFor(1))
	assert.Equal(t, models.StrengthMedium, StrengthFor(2))
	assert.Equal(t, models.StrengthMedium, StrengthFor(3))
	assert.Equal(t, models.StrengthStrong, StrengthFor(4))
	assert.Equal(t, models.StrengthStrong, StrengthFor(5))
}
