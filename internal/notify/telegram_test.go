package notify

import (
	"errors"
	"math"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/tdsequential/internal/sequential"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func testAlert() Alert {
	return Alert{
		Symbol:   "EUR/USD",
		Interval: "1h",
		Signal: sequential.Signal{
			Bar:       120,
			Label:     "2024-01-05 10:00:00",
			Kind:      sequential.SetupSignal,
			Direction: sequential.Buy,
		},
		Close:    1.08512,
		TDSTBuy:  1.0832,
		TDSTSell: math.NaN(),
	}
}

func TestFormatMessage(t *testing.T) {
	got := FormatMessage(testAlert())

	want := "*EUR/USD 1h*\nBuy Setup completed at 2024-01-05 10:00:00\nClose: 1.08512\nTDST support: 1.08320"
	assert.Equal(t, want, got)
}

func TestNotifySendsMarkdown(t *testing.T) {
	bot := &fakeBot{}
	n := newTelegram(bot, 42)

	require.NoError(t, n.Notify(testAlert()))

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "Buy Setup")
}

func TestNotifyError(t *testing.T) {
	bot := &fakeBot{err: errors.New("forbidden")}
	n := newTelegram(bot, 42)

	err := n.Notify(testAlert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}
