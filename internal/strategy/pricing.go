package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
)

const (
	priceDecimals = 8
	// minPrice — минимальный шаг при 8 знаках; ниже цену не опускаем.
	minPrice = 1e-8
)

var minPriceDec = decimal.NewFromFloat(minPrice)

type levels struct {
	entry, stop, target float64
}

// priceLevels ставит стоп и тейк на расстоянии множителей ATR от входа.
// false — если ATR не определён/нулевой или после округления нарушен порядок цен.
func priceLevels(side models.Side, close, atr float64, p Params) (levels, bool) {
	if !(close > 0) || !(atr > 0) || math.IsInf(close, 0) || math.IsInf(atr, 0) {
		return levels{}, false
	}

	var stop, target float64
	if side == models.SideLong {
		stop = close - p.ATRStopMult*atr
		target = close + p.ATRTargetMult*atr
	} else {
		stop = close + p.ATRStopMult*atr
		target = close - p.ATRTargetMult*atr
	}

	lv := levels{
		entry:  roundPrice(close),
		stop:   roundPrice(stop),
		target: roundPrice(target),
	}
	if !lv.ordered(side) {
		return levels{}, false
	}
	return lv, true
}

func (l levels) ordered(side models.Side) bool {
	if side == models.SideLong {
		return l.stop < l.entry && l.entry < l.target
	}
	return l.target < l.entry && l.entry < l.stop
}

func roundPrice(v float64) float64 {
	d := decimal.NewFromFloat(v).Round(priceDecimals)
	if d.LessThan(minPriceDec) {
		d = minPriceDec
	}
	return d.InexactFloat64()
}
