package models

import (
	"strconv"
	"strings"
	"time"
)

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

type Strength string

const (
	StrengthStrong Strength = "strong"
	StrengthMedium Strength = "medium"
	StrengthWeak   Strength = "weak"
)

// Signal — результат оценки одной пары символ×таймфрейм. Не меняется после создания.
type Signal struct {
	Symbol    string
	Timeframe string
	Side      Side

	Entry      float64
	StopLoss   float64
	TakeProfit float64

	Score    int
	Reasons  []string
	Strength Strength

	RecommendedUSD float64
	CreatedAt      time.Time // UTC
}

// ChatTarget — куда слать: числовой chat id или @username канала.
type ChatTarget string

// ChatID возвращает числовой id, если цель задана числом.
func (t ChatTarget) ChatID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (t ChatTarget) String() string { return string(t) }

// Budget — внешние параметры риска, движок только читает их.
type Budget struct {
	TotalUSDT     float64
	ATRStopMult   float64
	ATRTargetMult float64
	MinScore      int
}
