// Package indicator — чистые преобразования временных рядов OHLCV.
//
// Каждая функция возвращает ряд той же длины, что и вход. Бары без достаточной
// истории содержат NaN ("не определено"), а не ноль.
package indicator

import "math"

// epsilon защищает знаменатели от деления на ноль.
const epsilon = 1e-9

// Defined — есть ли значение в точке ряда.
func Defined(v float64) bool { return !math.IsNaN(v) }

// Last возвращает последний элемент ряда или NaN для пустого ряда.
func Last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// ewm — экспоненциальное сглаживание без поправки (adjust=false).
// Затравка — первое определённое значение; NaN на входе даёт NaN на выходе
// и не сбрасывает состояние.
func ewm(x []float64, alpha float64) []float64 {
	out := undefinedSeries(len(x))
	prev := math.NaN()
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(prev) {
			prev = v
		} else {
			prev = prev + alpha*(v-prev)
		}
		out[i] = prev
	}
	return out
}
