package service

import (
	"fmt"
	"strconv"
	"strings"

	"signal_bot/internal/models"
)

func f2(v float64) string { // для красивого вывода
	return fmt.Sprintf("%.2f", v)
}

// parseTarget принимает числовой id чата/канала или @username.
func parseTarget(s string) (models.ChatTarget, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "@") {
		if len(s) < 2 || strings.ContainsAny(s, " \t") {
			return "", false
		}
		return models.ChatTarget(s), true
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return "", false
	}
	return models.ChatTarget(s), true
}

func chatTarget(chatID int64) models.ChatTarget {
	return models.ChatTarget(strconv.FormatInt(chatID, 10))
}
