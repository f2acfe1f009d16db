package alerts

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewInfra — алерты опциональны: без ALERT_BOT_TOKEN/ALERT_CHAT_ID
// уведомления просто пишутся в лог.
func NewInfra() *Infra {
	token := os.Getenv("ALERT_BOT_TOKEN")
	chatStr := os.Getenv("ALERT_CHAT_ID")
	if token == "" || chatStr == "" {
		log.Printf("[alerts] not configured, admin alerts disabled")
		return &Infra{}
	}

	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		log.Printf("[alerts] invalid ALERT_CHAT_ID: %v", err)
		return &Infra{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[alerts] bot init failed: %v", err)
		return &Infra{}
	}

	return &Infra{bot: bot, chatID: chatID}
}

func (i *Infra) Notify(ctx context.Context, source string, err error, details string) error {
	if i.bot == nil {
		log.Printf("[alerts] %s: %v (%s)", source, err, details)
		return nil
	}

	text := fmt.Sprintf(
		"❗ audio_gateway (%s)\n\nОшибка: %v\n\nДетали: %s",
		source,
		err,
		details,
	)

	msg := tgbotapi.NewMessage(i.chatID, text)

	_, sendErr := i.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[alerts] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}
