package indicator

import "signal_bot/internal/models"

// Периоды фиксированного набора индикаторов.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	RSIPeriod = 14
	ADXPeriod = 14
	ATRPeriod = 14

	SupertrendATRPeriod  = 10
	SupertrendMultiplier = 3.0

	VolumeSMAPeriod = 20
)

// Set — индикаторы, выровненные индекс-в-индекс с исходной серией свечей.
type Set struct {
	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64

	RSI []float64

	ADX     []float64
	PlusDI  []float64
	MinusDI []float64

	ATR []float64

	Supertrend    []float64
	SupertrendDir []Direction

	VolumeSMA []float64
}

// Compute прогоняет серию через весь набор индикаторов.
func Compute(series models.CandleSeries) Set {
	high, low, close := series.Highs(), series.Lows(), series.Closes()

	var s Set
	s.MACD, s.MACDSignal, s.MACDHist = MACD(close, MACDFast, MACDSlow, MACDSignal)
	s.RSI = RSI(close, RSIPeriod)
	s.ADX, s.PlusDI, s.MinusDI = ADX(high, low, close, ADXPeriod)
	s.ATR = ATR(high, low, close, ATRPeriod)

	st := Supertrend(high, low, close, SupertrendATRPeriod, SupertrendMultiplier)
	s.Supertrend, s.SupertrendDir = st.Line, st.Direction

	s.VolumeSMA = SMA(series.Volumes(), VolumeSMAPeriod)
	return s
}

// Len — длина набора (совпадает с длиной серии).
func (s Set) Len() int { return len(s.MACD) }
