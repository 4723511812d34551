package indicator

import "math"

// TrueRange = max(high-low, |high-prevClose|, |low-prevClose|); на баре 0 — high-low.
// NaN-слагаемые пропускаются: бар без high всё равно даёт |low-prevClose|.
// NaN только если не определено ни одно слагаемое.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			out[i] = high[i] - low[i]
			continue
		}
		pc := close[i-1]
		out[i] = maxDefined(high[i]-low[i], math.Abs(high[i]-pc), math.Abs(low[i]-pc))
	}
	return out
}

// ATR — простое скользящее среднее TrueRange, не определено первые period-1 баров.
func ATR(high, low, close []float64, period int) []float64 {
	return SMA(TrueRange(high, low, close), period)
}

func maxDefined(xs ...float64) float64 {
	out := math.NaN()
	for _, x := range xs {
		if !Defined(x) {
			continue
		}
		if !Defined(out) || x > out {
			out = x
		}
	}
	return out
}
