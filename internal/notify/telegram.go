package notify

import (
	"fmt"
	"math"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/tdsequential/internal/sequential"
)

// sender is the part of tgbotapi.BotAPI the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts completed signals to one chat
type Telegram struct {
	bot    sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegram authorizes the bot token and binds the notifier to chatID
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}

	t := newTelegram(bot, chatID)
	t.logger.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")
	return t, nil
}

func newTelegram(bot sender, chatID int64) *Telegram {
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}
}

// Alert is what gets reported about a series
type Alert struct {
	Symbol   string
	Interval string
	Signal   sequential.Signal
	Close    float64
	// TDSTBuy and TDSTSell are NaN when no level is active
	TDSTBuy  float64
	TDSTSell float64
}

// Notify sends the alert as a Markdown message
func (t *Telegram) Notify(a Alert) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatMessage(a))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error().Err(err).Int64("chat_id", t.chatID).Msg("Failed to send signal")
		return fmt.Errorf("sending Telegram message: %w", err)
	}

	t.logger.Info().
		Str("symbol", a.Symbol).
		Str("signal", a.Signal.Name()).
		Int64("chat_id", t.chatID).
		Msg("Signal sent")
	return nil
}

// FormatMessage renders an alert for Telegram Markdown
func FormatMessage(a Alert) string {
	text := fmt.Sprintf("*%s %s*\n%s completed at %s\nClose: %s",
		a.Symbol, a.Interval, a.Signal.Name(), a.Signal.Label, formatPrice(a.Close))

	if !math.IsNaN(a.TDSTBuy) {
		text += "\nTDST support: " + formatPrice(a.TDSTBuy)
	}
	if !math.IsNaN(a.TDSTSell) {
		text += "\nTDST resistance: " + formatPrice(a.TDSTSell)
	}
	return text
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.5f", v)
}
