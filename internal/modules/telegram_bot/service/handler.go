package service

import (
	"fmt"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const usageRunChannel = "Использование: /run_channel <channel_id или @username>"

func (t *Telegram) handleUpdate(update tgbot.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	logger.Info("[TG] /%s from %d", msg.Command(), chatID)

	if text := t.handleCommand(chatID, msg.Command(), msg.CommandArguments()); text != "" {
		t.reply(chatID, text)
	}
}

// handleCommand выполняет команду и возвращает ответ (пусто — не отвечаем).
func (t *Telegram) handleCommand(chatID int64, cmd, args string) string {
	args = strings.TrimSpace(args)
	here := chatTarget(chatID)

	switch cmd {
	case "start", "help":
		quiet, ok := t.manager.IsQuiet(here)
		return formatStatus(t.cfg, len(t.manager.Active()), ok, quiet)

	case "ping":
		return "pong"

	case "config":
		return t.cfg.Summary()

	case "run":
		if !t.manager.Schedule(models.Subscription{Target: here, Owner: here}, t) {
			return "Генерация для этого чата уже запущена."
		}
		return "Запускаю генерацию сигналов для этого чата..."

	case "run_channel":
		target, ok := parseTarget(firstField(args))
		if !ok {
			return usageRunChannel
		}
		if !t.manager.Schedule(models.Subscription{Target: target, Quiet: true, Owner: here}, t) {
			return fmt.Sprintf("Генерация для %s уже запущена.", target)
		}
		return fmt.Sprintf("Запускаю генерацию сигналов для: %s", target)

	case "stop":
		target := here
		if args != "" {
			var ok bool
			if target, ok = parseTarget(firstField(args)); !ok {
				return "Использование: /stop [channel_id или @username]"
			}
		}
		if reply, ok := t.canStop(here, target); !ok {
			return reply
		}
		if !t.manager.Cancel(target) {
			return fmt.Sprintf("Для %s генерация не запущена.", target)
		}
		return fmt.Sprintf("Генерация сигналов для %s остановлена.", target)

	default:
		return helpText
	}
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// canStop: свой чат останавливать можно всегда, чужую цель — только чату,
// который её запустил. Автопостинг из CHANNEL_ID командой не снимается.
func (t *Telegram) canStop(caller, target models.ChatTarget) (string, bool) {
	if channel := t.cfg.Telegram.ChannelID; channel != "" && target == models.ChatTarget(channel) {
		return fmt.Sprintf("Автопостинг в %s задан в конфиге, командой его не остановить.", target), false
	}
	if target == caller {
		return "", true
	}
	owner, ok := t.manager.Owner(target)
	if !ok {
		return fmt.Sprintf("Для %s генерация не запущена.", target), false
	}
	if owner != caller {
		return fmt.Sprintf("Остановить генерацию для %s может только чат, который её запустил.", target), false
	}
	return "", true
}
