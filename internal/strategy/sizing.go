package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
)

const (
	minSizeUSD          = 5.0
	maxBudgetShare      = 0.20
	defaultSizeFraction = 0.12
)

// sizeFractions — доля бюджета по баллу; всё, чего нет в таблице, — defaultSizeFraction.
var sizeFractions = map[int]float64{
	0: 0.03,
	1: 0.05,
	2: 0.08,
	3: 0.10,
	4: 0.12,
}

// StrengthFor переводит балл в метку силы сигнала.
func StrengthFor(score int) models.Strength {
	switch {
	case score >= 4:
		return models.StrengthStrong
	case score >= 2:
		return models.StrengthMedium
	default:
		return models.StrengthWeak
	}
}

// RecommendSize — рекомендуемая сумма входа в USDT: доля бюджета по баллу,
// не больше 20% бюджета и не меньше $5, с округлением до центов.
func RecommendSize(score int, budget float64) float64 {
	frac, ok := sizeFractions[score]
	if !ok {
		frac = defaultSizeFraction
	}
	v := math.Max(minSizeUSD, math.Min(budget*frac, budget*maxBudgetShare))
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
