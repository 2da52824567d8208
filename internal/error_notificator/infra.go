package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
)

// details длиннее лимита телеграма обрезаются
const maxDetails = 3500

// Infra talks to Telegram only when there is something to report: the bot
// (and its getMe round trip) is created on the first Notify.
type Infra struct {
	token    string
	chatID   int64
	endpoint string
	bot      *tgbotapi.BotAPI
}

func NewInfra(cfg config.Telegram) *Infra {
	return newInfra(cfg, tgbotapi.APIEndpoint)
}

func newInfra(cfg config.Telegram, endpoint string) *Infra {
	return &Infra{token: cfg.BotToken, chatID: cfg.AdminChatID, endpoint: endpoint}
}

func (i *Infra) botAPI() (*tgbotapi.BotAPI, error) {
	if i.bot != nil {
		return i.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(i.token, i.endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	i.bot = bot
	return bot, nil
}

func (i *Infra) Notify(_ context.Context, worker string, err error, details string) error {
	bot, initErr := i.botAPI()
	if initErr != nil {
		return initErr
	}

	if r := []rune(details); len(r) > maxDetails {
		details = string(r[:maxDetails]) + "…"
	}

	text := fmt.Sprintf(
		"❗ Ошибка в воркере (%s)\n\nОшибка: %v\n\nДетали: %s",
		worker,
		err,
		details,
	)

	msg := tgbotapi.NewMessage(i.chatID, text)
	if _, sendErr := bot.Send(msg); sendErr != nil {
		return fmt.Errorf("telegram send: %w", sendErr)
	}
	return nil
}
