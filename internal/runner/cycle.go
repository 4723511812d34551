package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"signal_bot/internal/models"
	hsvc "signal_bot/internal/modules/health/service"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
)

const (
	msgNoCandidate   = "Нет подходящих сетапов сейчас. Ищу дальше..."
	msgBelowMinScore = "Сигналы есть, но ниже MIN_SCORE. Ищу дальше..."
	msgErrorFormat   = "Ошибка: %v"
)

type Outcome string

const (
	OutcomeSignal      Outcome = "signal"
	OutcomeNoCandidate Outcome = "no_candidate"
	OutcomeBelowMin    Outcome = "below_min_score"
	OutcomeError       Outcome = "error"
	OutcomePanic       Outcome = "panic"
)

// JobState — всё, что переживает один цикл конкретного расписания.
// LastSymbol пишет только горутина своего job.
type JobState struct {
	Target     models.ChatTarget
	Quiet      bool
	LastSymbol string
	Notifier   Notifier

	// LastOutcome — чем закончился последний цикл (для логов и тестов).
	LastOutcome Outcome
}

// Cycle — один проход: символы, свечи, оценка, выбор, отправка.
type Cycle struct {
	src      CandleSource
	eval     *strategy.Evaluator
	render   ChartRenderer
	format   Formatter
	settings Settings

	metrics *hsvc.Metrics
	state   *hsvc.State
}

func NewCycle(
	src CandleSource,
	eval *strategy.Evaluator,
	render ChartRenderer,
	format Formatter,
	settings Settings,
	metrics *hsvc.Metrics,
	state *hsvc.State,
) *Cycle {
	if settings.Workers <= 0 {
		settings.Workers = 1
	}
	if settings.Weights == nil {
		settings.Weights = strategy.DefaultTimeframeWeights
	}
	return &Cycle{
		src:      src,
		eval:     eval,
		render:   render,
		format:   format,
		settings: settings,
		metrics:  metrics,
		state:    state,
	}
}

type pairKey struct {
	symbol, tf string
}

type scanResult struct {
	batch  []models.Signal
	series map[pairKey]models.CandleSeries
}

// Run выполняет цикл и возвращает состояние для следующего.
// Паника и любые ошибки остаются внутри: расписание должно жить дальше.
func (c *Cycle) Run(ctx context.Context, job JobState) (next JobState) {
	next = job
	id := uuid.NewString()
	started := time.Now()

	span, ctx := opentracing.StartSpanFromContext(ctx, "scan.cycle")
	span.SetTag("cycle_id", id)
	span.SetTag("target", job.Target.String())

	outcome := OutcomeError
	candidates := 0
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomePanic
			logger.Error("[CYCLE %s] panic for %s: %v\n%s", id, job.Target, r, debug.Stack())
			c.reportError(ctx, job, errors.Errorf("panic: %v", r))
			next = job
		}
		next.LastOutcome = outcome

		span.SetTag("outcome", string(outcome))
		if outcome == OutcomeError || outcome == OutcomePanic {
			ext.Error.Set(span, true)
		}
		span.Finish()

		c.metrics.ObserveCycle(string(outcome), time.Since(started), candidates)
		if c.state != nil {
			c.state.TouchCycle(time.Now())
		}
	}()

	logger.Debug("[CYCLE %s] start for %s (last=%q)", id, job.Target, job.LastSymbol)

	res, err := c.scan(ctx, id)
	if err != nil {
		logger.Error("[CYCLE %s] scan failed for %s: %v", id, job.Target, err)
		c.reportError(ctx, job, err)
		return next
	}
	candidates = len(res.batch)

	best, ok := strategy.PickBest(strategy.Suppress(res.batch, job.LastSymbol), c.settings.Weights)
	switch {
	case !ok:
		outcome = OutcomeNoCandidate
		logger.Info("[CYCLE %s] no candidates (%d before suppression)", id, candidates)
		c.info(ctx, job, msgNoCandidate)
		return next
	case best.Score < c.settings.MinScore:
		outcome = OutcomeBelowMin
		logger.Info("[CYCLE %s] best %s %s score=%d below MIN_SCORE=%d", id, best.Symbol, best.Timeframe, best.Score, c.settings.MinScore)
		c.info(ctx, job, msgBelowMinScore)
		return next
	}

	if ctx.Err() != nil {
		return next
	}

	logger.Info("[CYCLE %s] %s %s %s score=%d -> %s", id, best.Symbol, best.Timeframe, best.Side, best.Score, job.Target)
	span.SetTag("symbol", best.Symbol)
	c.dispatch(ctx, job, best, res.series[pairKey{best.Symbol, best.Timeframe}])

	outcome = OutcomeSignal
	next.LastSymbol = best.Symbol
	return next
}

// scan параллельно тянет и оценивает все пары символ×таймфрейм.
// Ошибка пары не роняет соседние: пара просто не даёт кандидата.
func (c *Cycle) scan(ctx context.Context, id string) (scanResult, error) {
	symbols, err := c.src.TopUSDTSymbols(ctx, c.settings.TopSymbols)
	if err != nil {
		return scanResult{}, errors.Wrap(err, "top symbols")
	}

	pairs := make([]pairKey, 0, len(symbols)*len(c.settings.Timeframes))
	for _, s := range symbols {
		for _, tf := range c.settings.Timeframes {
			pairs = append(pairs, pairKey{symbol: s, tf: tf})
		}
	}

	type slot struct {
		sig    models.Signal
		series models.CandleSeries
		ok     bool
	}
	slots := make([]slot, len(pairs))

	var g errgroup.Group
	g.SetLimit(c.settings.Workers)
	for i, p := range pairs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("[CYCLE %s] panic on %s %s: %v", id, p.symbol, p.tf, r)
					c.metrics.PairFailed(p.tf)
				}
			}()

			series, err := c.src.Klines(ctx, p.symbol, p.tf, c.settings.KlineLimit)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("[CYCLE %s] %s %s skipped: %v", id, p.symbol, p.tf, err)
					c.metrics.PairFailed(p.tf)
				}
				return nil
			}
			sig, ok := c.eval.Evaluate(p.symbol, p.tf, series)
			slots[i] = slot{sig: sig, series: series, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return scanResult{}, err
	}

	res := scanResult{series: make(map[pairKey]models.CandleSeries)}
	for i, s := range slots {
		if !s.ok {
			continue
		}
		res.batch = append(res.batch, s.sig)
		res.series[pairs[i]] = s.series
	}
	logger.Debug("[CYCLE %s] %d symbols, %d pairs, %d candidates", id, len(symbols), len(pairs), len(res.batch))
	return res, nil
}

// dispatch шлёт график с подписью; если график не вышел — тот же текст без картинки.
func (c *Cycle) dispatch(ctx context.Context, job JobState, sig models.Signal, series models.CandleSeries) {
	text := c.format(sig)

	var err error
	if c.render != nil && len(series) > 0 {
		var img []byte
		if img, err = c.render(sig.Symbol, sig.Timeframe, series, sig); err == nil {
			err = job.Notifier.SendPhoto(ctx, job.Target, img, text)
			c.metrics.Dispatched("photo", err)
			if err == nil {
				c.touchSignal()
				return
			}
		}
		logger.Warn("[DISPATCH] chart for %s %s not delivered, sending text: %v", sig.Symbol, sig.Timeframe, err)
	}

	err = job.Notifier.Send(ctx, job.Target, text)
	c.metrics.Dispatched("text", err)
	if err != nil {
		logger.Error("[DISPATCH] send to %s failed: %v", job.Target, err)
		return
	}
	c.touchSignal()
}

func (c *Cycle) touchSignal() {
	if c.state != nil {
		c.state.TouchSignal(time.Now())
	}
}

func (c *Cycle) info(ctx context.Context, job JobState, text string) {
	if job.Quiet || job.Notifier == nil {
		return
	}
	err := job.Notifier.Send(ctx, job.Target, text)
	c.metrics.Dispatched("info", err)
	if err != nil {
		logger.Warn("[DISPATCH] info to %s failed: %v", job.Target, err)
	}
}

func (c *Cycle) reportError(ctx context.Context, job JobState, err error) {
	if ctx.Err() != nil {
		return
	}
	c.info(ctx, job, fmt.Sprintf(msgErrorFormat, err))
}
