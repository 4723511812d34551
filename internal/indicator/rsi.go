package indicator

// RSI по Уайлдеру: рост и падение сглаживаются отдельно с α = 1/period.
// Бар 0 не определён — для него нет изменения цены.
func RSI(close []float64, period int) []float64 {
	n := len(close)
	out := undefinedSeries(n)
	if n == 0 {
		return out
	}
	if period < 1 {
		period = 1
	}

	up := make([]float64, n)
	down := make([]float64, n)
	for i := 1; i < n; i++ {
		d := close[i] - close[i-1]
		switch {
		case d > 0:
			up[i] = d
		case d < 0:
			down[i] = -d
		}
	}

	alpha := 1.0 / float64(period)
	avgUp := ewm(up, alpha)
	avgDown := ewm(down, alpha)

	for i := 1; i < n; i++ {
		rs := avgUp[i] / (avgDown[i] + epsilon)
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
