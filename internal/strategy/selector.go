package strategy

import "signal_bot/internal/models"

// DefaultTimeframeWeights — приоритет таймфреймов при равном балле.
var DefaultTimeframeWeights = map[string]int{
	"15m": 2,
	"5m":  1,
	"30m": 1,
}

type rankKey struct {
	score  int
	spike  int
	weight int
}

func (k rankKey) less(o rankKey) bool {
	if k.score != o.score {
		return k.score < o.score
	}
	if k.spike != o.spike {
		return k.spike < o.spike
	}
	return k.weight < o.weight
}

func keyOf(sig models.Signal, weights map[string]int) rankKey {
	k := rankKey{score: sig.Score, weight: weights[sig.Timeframe]}
	if HasVolumeSpike(sig) {
		k.spike = 1
	}
	return k
}

// PickBest выбирает лучший сигнал по (балл, всплеск объёма, вес таймфрейма).
// При полном равенстве побеждает первый во входном порядке.
func PickBest(batch []models.Signal, weights map[string]int) (models.Signal, bool) {
	if len(batch) == 0 {
		return models.Signal{}, false
	}
	if weights == nil {
		weights = DefaultTimeframeWeights
	}

	best := 0
	bestKey := keyOf(batch[0], weights)
	for i := 1; i < len(batch); i++ {
		if k := keyOf(batch[i], weights); bestKey.less(k) {
			best, bestKey = i, k
		}
	}
	return batch[best], true
}

// Suppress убирает кандидатов по символу, выбранному в прошлом цикле.
func Suppress(batch []models.Signal, lastSymbol string) []models.Signal {
	if lastSymbol == "" {
		return batch
	}
	out := make([]models.Signal, 0, len(batch))
	for _, s := range batch {
		if s.Symbol != lastSymbol {
			out = append(out, s)
		}
	}
	return out
}
