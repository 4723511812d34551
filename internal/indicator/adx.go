package indicator

import "math"

// ADX считает индекс направленного движения и линии +DI / -DI.
// Направленное движение сглаживается с α = 1/period и нормируется на ATR(period);
// ADX — то же сглаживание DX, начиная с первого определённого значения.
func ADX(high, low, close []float64, period int) (adx, plusDI, minusDI []float64) {
	n := len(close)
	if period < 1 {
		period = 1
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	alpha := 1.0 / float64(period)
	atr := ATR(high, low, close, period)
	smoothPlus := ewm(plusDM, alpha)
	smoothMinus := ewm(minusDM, alpha)

	plusDI = undefinedSeries(n)
	minusDI = undefinedSeries(n)
	dx := undefinedSeries(n)
	for i := 0; i < n; i++ {
		if !Defined(atr[i]) {
			continue
		}
		p := 100 * smoothPlus[i] / (atr[i] + epsilon)
		m := 100 * smoothMinus[i] / (atr[i] + epsilon)
		plusDI[i] = p
		minusDI[i] = m
		dx[i] = math.Abs(p-m) / (p + m + epsilon) * 100
	}

	return ewm(dx, alpha), plusDI, minusDI
}
