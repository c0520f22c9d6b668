// Package alert sends operator notifications via the Telegram Bot API.
// The relay keeps running through bridge outages; alerts exist so someone
// notices when it has been failing for a while.
package alert

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers operator alerts with bounded retries.
type Notifier struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewNotifier creates a Telegram notifier.
func NewNotifier(botToken, chatID string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	return &Notifier{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     3,
		retryDelayBase: time.Second,
	}, nil
}

// SendError notifies the operator that polling started failing. Callers send
// this on the first failure of a streak, not on every tick.
func (n *Notifier) SendError(pollErr error) error {
	message := fmt.Sprintf("🚨 Bloomy relay: bridge polling is failing\n\nError: %v\nAt: %s",
		pollErr, time.Now().Format("2006-01-02 15:04:05"))
	return n.send(message)
}

// SendRecovery notifies the operator that polling recovered after a streak of
// failures.
func (n *Notifier) SendRecovery(failures int) error {
	message := fmt.Sprintf("✅ Bloomy relay: bridge polling recovered after %d failed ticks\n\nAt: %s",
		failures, time.Now().Format("2006-01-02 15:04:05"))
	return n.send(message)
}

func (n *Notifier) send(message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		_, err := n.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(n.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send message after %d retries: %w", n.maxRetries, lastErr)
}
