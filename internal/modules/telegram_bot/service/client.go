package service

import (
	"context"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// botAPI — то, что нужно от *tgbot.BotAPI.
type botAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
	StopReceivingUpdates()
}

// scheduler — то, что нужно от *runner.Manager.
type scheduler interface {
	Schedule(sub models.Subscription, n runner.Notifier) bool
	Cancel(target models.ChatTarget) bool
	Active() []models.ChatTarget
	IsQuiet(target models.ChatTarget) (quiet, ok bool)
	Owner(target models.ChatTarget) (owner models.ChatTarget, ok bool)
}

// Telegram — команды бота и отправка сигналов в чаты и каналы.
type Telegram struct {
	bot     botAPI
	cfg     *config.Config
	manager scheduler

	stopOnce sync.Once
	done     chan struct{}
}

func NewTelegram(cfg *config.Config, manager *runner.Manager) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot api")
	}
	logger.Info("[TG] authorized as @%s", b.Self.UserName)
	return newTelegram(b, cfg, manager), nil
}

func newTelegram(bot botAPI, cfg *config.Config, manager scheduler) *Telegram {
	return &Telegram{
		bot:     bot,
		cfg:     cfg,
		manager: manager,
		done:    make(chan struct{}),
	}
}

// Send — текст в чат по id или в канал по @username.
func (t *Telegram) Send(_ context.Context, target models.ChatTarget, text string) error {
	var msg tgbot.MessageConfig
	if id, ok := target.ChatID(); ok {
		msg = tgbot.NewMessage(id, text)
	} else {
		msg = tgbot.NewMessageToChannel(target.String(), text)
	}
	_, err := t.bot.Send(msg)
	return errors.Wrapf(err, "send message to %s", target)
}

// SendPhoto — PNG с подписью.
func (t *Telegram) SendPhoto(_ context.Context, target models.ChatTarget, png []byte, caption string) error {
	file := tgbot.FileBytes{Name: "chart.png", Bytes: png}

	var photo tgbot.PhotoConfig
	if id, ok := target.ChatID(); ok {
		photo = tgbot.NewPhoto(id, file)
	} else {
		photo = tgbot.NewPhotoToChannel(target.String(), file)
	}
	photo.Caption = caption

	_, err := t.bot.Send(photo)
	return errors.Wrapf(err, "send photo to %s", target)
}

func (t *Telegram) reply(chatID int64, text string) {
	if _, err := t.bot.Send(tgbot.NewMessage(chatID, text)); err != nil {
		logger.Error("[TG] reply to %d failed: %v", chatID, err)
	}
}

// Start читает апдейты long polling до Stop или отмены ctx.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(update)
		}
	}
}

func (t *Telegram) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.bot.StopReceivingUpdates()
	})
}
