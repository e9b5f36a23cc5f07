package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// TelegramNotifier sends messages via the Telegram Bot API. Without a token
// or chat it runs disabled and only logs the messages.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	retryWait time.Duration // first retry delay, 1s when zero
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string) (*TelegramNotifier, error) {
	if botToken == "" || chatID == 0 {
		log.Warn().Msg("telegram token or chat id missing, notifications disabled")
		return &TelegramNotifier{}, nil
	}

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 60 * time.Second, Transport: transport}
	return newTelegramNotifier(botToken, chatID, tgbotapi.APIEndpoint, client)
}

// newTelegramNotifier authorizes against endpoint, a tgbotapi endpoint format
// such as tgbotapi.APIEndpoint.
func newTelegramNotifier(botToken string, chatID int64, endpoint string, client *http.Client) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	log.Info().Str("username", bot.Self.UserName).Msg("authorized on telegram")
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Enabled reports whether messages are actually delivered.
func (t *TelegramNotifier) Enabled() bool { return t.bot != nil }

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	if !t.Enabled() {
		log.Info().Str("text", text).Msg("telegram disabled, message not sent")
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message, retrying up to maxRetries times with
// exponential backoff.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempts := 0
	operation := func() error {
		attempts++
		return t.Send(text)
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = t.retryInterval()
	strategy.MaxElapsedTime = 0
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempts).Int("max", maxRetries+1).Dur("retry_in", wait).Msg("telegram send failed")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(strategy, uint64(maxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("telegram send failed after %d attempts: %w", attempts, err)
	}
	return nil
}

func (t *TelegramNotifier) retryInterval() time.Duration {
	if t.retryWait > 0 {
		return t.retryWait
	}
	return time.Second
}
