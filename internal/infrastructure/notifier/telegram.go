package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"empire_trader/internal/domain/entity"
)

// kindBadges maps event kinds to a short prefix in the chat message.
//
//nolint:gochecknoglobals
var kindBadges = map[entity.EventKind]string{
	entity.KindConnect:          "🔌",
	entity.KindAuthenticated:    "🔑",
	entity.KindTradeProcessing:  "📋",
	entity.KindTradeConfirming:  "⏳",
	entity.KindTradeSending:     "📦",
	entity.KindTradeSent:        "✈️",
	entity.KindTradeCompleted:   "💰",
	entity.KindTradeTimedOut:    "⌛",
	entity.KindTradeCanceled:    "🚫",
	entity.KindPriceChanged:     "📉",
	entity.KindDelisted:         "🧹",
	entity.KindFailure:          "❌",
}

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run drains the notification channel until the context ends or the
// channel closes.
func (b *TelegramBot) Run(ctx context.Context, notifications <-chan entity.Notification) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			if err := b.Send(ctx, n); err != nil {
				logger(ctx).Error("failed to send notification", "error", err, "kind", string(n.Kind))
			}
		}
	}
}

func (b *TelegramBot) Send(ctx context.Context, n entity.Notification) error {
	badge, ok := kindBadges[n.Kind]
	if !ok {
		badge = "ℹ️"
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		fmt.Sprintf("%s %s", badge, n.Message),
	)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message outside the queue, used for the
// startup self-test.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
