package service

import (
	"fmt"
	"strconv"
	"strings"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

const dateLayout = "2006-01-02 15:04 UTC"

// FormatSignal — карточка сигнала для чата и подписи к графику.
func FormatSignal(sig models.Signal) string {
	lines := []string{
		fmt.Sprintf("%s Сигнал  %s (%s)  %s", strengthLabel(sig.Strength), sig.Symbol, sig.Timeframe, sig.Side),
		fmt.Sprintf("ТВХ: %s   SL: %s   TP: %s", price(sig.Entry), price(sig.StopLoss), price(sig.TakeProfit)),
		fmt.Sprintf("Причина: score=%d; %s", sig.Score, strings.Join(sig.Reasons, "; ")),
		fmt.Sprintf("Реком. сумма: $%s", f2(sig.RecommendedUSD)),
		fmt.Sprintf("Дата: %s", sig.CreatedAt.UTC().Format(dateLayout)),
	}
	return strings.Join(lines, "\n")
}

func strengthLabel(s models.Strength) string {
	switch s {
	case models.StrengthStrong:
		return "Сильный"
	case models.StrengthMedium:
		return "Средний"
	default:
		return "Слабый"
	}
}

// price — без хвостовых нулей: 440.4379105, 0.00000001.
func price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatStatus(cfg *config.Config, active int, here bool, quiet bool) string {
	channel := cfg.Telegram.ChannelID
	if channel == "" {
		channel = "(не задан)"
	}
	lines := []string{
		"Бот запущен ✅",
		fmt.Sprintf("Таймфреймы: %s", strings.Join(cfg.Scanner.Timeframes, ", ")),
		fmt.Sprintf("TOP_SYMBOLS: %d", cfg.Scanner.TopSymbols),
		fmt.Sprintf("MIN_SCORE: %d", cfg.Scanner.MinScore),
		fmt.Sprintf("Интервал сигналов: %d-%d сек", cfg.Scanner.IntervalMin, cfg.Scanner.IntervalMax),
		fmt.Sprintf("CHANNEL_ID: %s", channel),
		fmt.Sprintf("Активных расписаний: %d", active),
	}
	switch {
	case here && quiet:
		lines = append(lines, "Этот чат: генерация идёт (тихий режим)")
	case here:
		lines = append(lines, "Этот чат: генерация идёт")
	default:
		lines = append(lines, "Этот чат: генерация не запущена, /run чтобы начать")
	}
	lines = append(lines, "", helpText)
	return strings.Join(lines, "\n")
}

const helpText = "Команды:\n" +
	"/run — сигналы в этот чат\n" +
	"/run_channel <channel_id или @username> — сигналы в канал\n" +
	"/stop [channel_id или @username] — остановить (чужие цели может только запустивший чат)\n" +
	"/config — текущие настройки\n" +
	"/ping — проверка связи"
