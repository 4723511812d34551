package indicator

import "math"

// Direction — направление Supertrend. Нулевое значение — "не определено".
type Direction int8

const (
	Undetermined Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "undetermined"
	}
}

// SupertrendResult — линия, направление и финальные полосы по барам.
type SupertrendResult struct {
	Line       []float64
	Direction  []Direction
	FinalUpper []float64
	FinalLower []float64
	ATR        []float64
}

// Supertrend строит полосы hl2 ± multiplier·ATR(atrPeriod) с храповиком:
// верхняя полоса только опускается, пока предыдущее закрытие не пробило её вверх,
// нижняя только поднимается, пока закрытие не пробило её вниз.
// Рекуррентность строго последовательная: бар i зависит от полос и направления бара i-1.
func Supertrend(high, low, close []float64, atrPeriod int, multiplier float64) SupertrendResult {
	n := len(close)
	atr := ATR(high, low, close, atrPeriod)

	res := SupertrendResult{
		Line:       undefinedSeries(n),
		Direction:  make([]Direction, n),
		FinalUpper: make([]float64, n),
		FinalLower: make([]float64, n),
		ATR:        atr,
	}
	if n == 0 {
		return res
	}

	basic := func(i int) (upper, lower float64) {
		mid := (high[i] + low[i]) / 2
		return mid + multiplier*atr[i], mid - multiplier*atr[i]
	}

	res.FinalUpper[0], res.FinalLower[0] = basic(0)

	for i := 1; i < n; i++ {
		upper, lower := basic(i)
		prevUpper, prevLower := res.FinalUpper[i-1], res.FinalLower[i-1]

		// NaN в сравнении даёт false — пока ATR не определён, берём базовую полосу.
		if close[i-1] <= prevUpper {
			res.FinalUpper[i] = math.Min(upper, prevUpper)
		} else {
			res.FinalUpper[i] = upper
		}
		if close[i-1] >= prevLower {
			res.FinalLower[i] = math.Max(lower, prevLower)
		} else {
			res.FinalLower[i] = lower
		}

		switch {
		case close[i] > prevUpper:
			res.Direction[i] = Up
		case close[i] < prevLower:
			res.Direction[i] = Down
		default:
			res.Direction[i] = res.Direction[i-1]
		}

		if res.Direction[i] == Up {
			res.Line[i] = res.FinalLower[i]
		} else {
			res.Line[i] = res.FinalUpper[i]
		}
	}
	return res
}
