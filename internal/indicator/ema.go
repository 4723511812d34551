package indicator

// EMA — экспоненциальная скользящая средняя, α = 2/(period+1), ema[0] = x[0].
func EMA(x []float64, period int) []float64 {
	if period < 1 {
		period = 1
	}
	return ewm(x, 2.0/float64(period+1))
}

// SMA — простое скользящее среднее по окну period. Первые period-1 значений
// не определены; окно с NaN тоже даёт NaN.
func SMA(x []float64, period int) []float64 {
	out := undefinedSeries(len(x))
	if period < 1 {
		return out
	}

	var sum float64
	nans := 0
	for i, v := range x {
		if Defined(v) {
			sum += v
		} else {
			nans++
		}
		if i >= period {
			old := x[i-period]
			if Defined(old) {
				sum -= old
			} else {
				nans--
			}
		}
		if i >= period-1 && nans == 0 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// MACD возвращает линию MACD, сигнальную линию и гистограмму.
func MACD(close []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMA(close, fast)
	emaSlow := EMA(close, slow)

	line = make([]float64, len(close))
	for i := range close {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig = EMA(line, signal)

	hist = make([]float64, len(close))
	for i := range close {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}
