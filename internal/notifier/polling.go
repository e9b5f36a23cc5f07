package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is
// cancelled. Messages from other chats are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	if !t.Enabled() {
		return
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := t.bot.GetUpdatesChan(cfg)
	log.Info().Msg("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			log.Info().Msg("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.Chat == nil || msg.Chat.ID != t.chatID {
				continue
			}
			command := commandText(msg.Text)
			if command == "" {
				continue
			}
			log.Info().Str("command", command).Msg("received command")
			if reply := handler(command); reply != "" {
				if err := t.Send(reply); err != nil {
					log.Error().Err(err).Msg("send reply")
				}
			}
		}
	}
}

// commandText normalises "/Status@my_bot extra" to "/status".
func commandText(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}
