package config

import (
	"strconv"
	"strings"
)

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// splitList режет "5m, 15m,,30m" в [5m 15m 30m].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormTF приводит таймфрейм к записи Binance: "15M" -> "15m", "60m" -> "1h".
// "1M" (месяц) не трогаем.
func NormTF(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "1M" {
		return s
	}
	s = strings.ToLower(s)
	switch s {
	case "60m":
		return "1h"
	case "240m":
		return "4h"
	case "24h":
		return "1d"
	default:
		return s
	}
}

// NormTimeframes нормализует список и убирает повторы, сохраняя порядок.
func NormTimeframes(tfs []string) []string {
	seen := make(map[string]struct{}, len(tfs))
	out := make([]string, 0, len(tfs))
	for _, raw := range tfs {
		tf := NormTF(raw)
		if tf == "" {
			continue
		}
		if _, ok := seen[tf]; ok {
			continue
		}
		seen[tf] = struct{}{}
		out = append(out, tf)
	}
	return out
}
