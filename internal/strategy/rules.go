package strategy

import (
	"fmt"
	"strings"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

const (
	rsiOversold   = 35.0
	rsiOverbought = 65.0
	adxTrending   = 20.0
	spikeRatio    = 1.5

	// volSpikeSuffix — хвост тега объёмного всплеска, по нему ранжирует селектор.
	volSpikeSuffix = "x vol"
)

// snapshot — значения индикаторов на последнем баре.
type snapshot struct {
	macd, macdSignal float64
	rsi              float64
	adx, plusDI      float64
	minusDI          float64
	stDir            indicator.Direction
	spike            float64
}

func snapshotOf(series models.CandleSeries, set indicator.Set) snapshot {
	lastVol := series[len(series)-1].Volume
	return snapshot{
		macd:       indicator.Last(set.MACD),
		macdSignal: indicator.Last(set.MACDSignal),
		rsi:        indicator.Last(set.RSI),
		adx:        indicator.Last(set.ADX),
		plusDI:     indicator.Last(set.PlusDI),
		minusDI:    indicator.Last(set.MinusDI),
		stDir:      set.SupertrendDir[len(set.SupertrendDir)-1],
		spike:      lastVol / (indicator.Last(set.VolumeSMA) + 1e-9),
	}
}

// rule — одно голосующее правило: предикат, сторона, тег.
type rule struct {
	side models.Side
	tag  string
	when func(s snapshot) bool
}

// rules проверяются строго по порядку: от него зависит порядок тегов.
// NaN в сравнении даёт false, так что неопределённый индикатор не голосует.
var rules = []rule{
	{models.SideLong, "MACD>signal", func(s snapshot) bool { return s.macd > s.macdSignal }},
	{models.SideShort, "MACD<signal", func(s snapshot) bool { return !(s.macd > s.macdSignal) }},
	{models.SideLong, "RSI<35", func(s snapshot) bool { return s.rsi < rsiOversold }},
	{models.SideShort, "RSI>65", func(s snapshot) bool { return s.rsi > rsiOverbought }},
	{models.SideLong, "ST up", func(s snapshot) bool { return s.stDir == indicator.Up }},
	{models.SideShort, "ST down", func(s snapshot) bool { return s.stDir == indicator.Down }},
	{models.SideLong, "ADX>20 & +DI", func(s snapshot) bool { return s.adx > adxTrending && s.plusDI > s.minusDI }},
	{models.SideShort, "ADX>20 & -DI", func(s snapshot) bool { return s.adx > adxTrending && !(s.plusDI > s.minusDI) }},
}

type tally struct {
	long, short []string
	side        models.Side
}

func (t tally) score() int {
	return max(len(t.long), len(t.short))
}

func (t tally) reasons() []string {
	if t.side == models.SideLong {
		return t.long
	}
	return t.short
}

func (t *tally) add(side models.Side, tag string) {
	if side == models.SideLong {
		t.long = append(t.long, tag)
	} else {
		t.short = append(t.short, tag)
	}
}

func (t tally) leader() models.Side {
	if len(t.long) >= len(t.short) {
		return models.SideLong
	}
	return models.SideShort
}

// vote прогоняет правила, затем отдаёт балл за всплеск объёма текущему лидеру.
func vote(s snapshot) tally {
	t := tally{long: []string{}, short: []string{}}
	for _, r := range rules {
		if r.when(s) {
			t.add(r.side, r.tag)
		}
	}
	if s.spike >= spikeRatio {
		t.add(t.leader(), spikeTag(s.spike))
	}
	t.side = t.leader()
	return t
}

func spikeTag(ratio float64) string {
	return fmt.Sprintf("%.1f%s", ratio, volSpikeSuffix)
}

// HasVolumeSpike — есть ли среди причин тег всплеска объёма.
func HasVolumeSpike(sig models.Signal) bool {
	for _, r := range sig.Reasons {
		if strings.HasSuffix(r, volSpikeSuffix) {
			return true
		}
	}
	return false
}
