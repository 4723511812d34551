package strategy

import (
	"time"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// MinCandles — меньше свечей не оцениваем: это защита от короткой истории, а не ошибка.
const MinCandles = 100

// Params — бюджет и множители ATR, которые движок только читает.
type Params struct {
	BudgetUSDT    float64
	ATRStopMult   float64
	ATRTargetMult float64
}

// ParamsFromBudget вытаскивает параметры оценки из конфигурации бюджета.
func ParamsFromBudget(b models.Budget) Params {
	return Params{
		BudgetUSDT:    b.TotalUSDT,
		ATRStopMult:   b.ATRStopMult,
		ATRTargetMult: b.ATRTargetMult,
	}
}

// Evaluator превращает серию свечей в сигнал. Без состояния: безопасен
// для одновременных вызовов по разным парам.
type Evaluator struct {
	params Params
	now    func() time.Time
}

func NewEvaluator(params Params) *Evaluator {
	return &Evaluator{params: params, now: time.Now}
}

// WithClock подменяет часы (для тестов).
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	cp := *e
	cp.now = now
	return &cp
}

// Evaluate возвращает сигнал и true, либо false если серия не годится
// (короткая, без закрытий, нулевой ATR или вырожденные цены).
func (e *Evaluator) Evaluate(symbol, timeframe string, series models.CandleSeries) (models.Signal, bool) {
	if len(series) < MinCandles || series.HasMissingClose() {
		return models.Signal{}, false
	}

	set := indicator.Compute(series)
	t := vote(snapshotOf(series, set))

	levels, ok := priceLevels(t.side, series[len(series)-1].Close, indicator.Last(set.ATR), e.params)
	if !ok {
		return models.Signal{}, false
	}

	score := t.score()
	return models.Signal{
		Symbol:         symbol,
		Timeframe:      timeframe,
		Side:           t.side,
		Entry:          levels.entry,
		StopLoss:       levels.stop,
		TakeProfit:     levels.target,
		Score:          score,
		Reasons:        t.reasons(),
		Strength:       StrengthFor(score),
		RecommendedUSD: RecommendSize(score, e.params.BudgetUSDT),
		CreatedAt:      e.now().UTC(),
	}, true
}
