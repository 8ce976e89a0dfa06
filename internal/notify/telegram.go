package notify

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mystylekpop/snsbot/internal/logger"
)

// Sender is the subset of the telegram bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier delivers messages to the admin chat.
type TelegramNotifier struct {
	bot     Sender
	chatID  int64
	tracker *Tracker
	loc     *time.Location
	now     func() time.Time
}

// NewTelegram returns a notifier for the admin chat. loc is the
// timezone used for timestamps in messages.
func NewTelegram(bot Sender, chatID int64, loc *time.Location) *TelegramNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &TelegramNotifier{
		bot:     bot,
		chatID:  chatID,
		tracker: NewTracker(),
		loc:     loc,
		now:     time.Now,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, message string) {
	msg := tgbotapi.NewMessage(n.chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		logger.Error(ctx, "notify: send failed", "err", err)
	}
}

func (n *TelegramNotifier) NotifyError(ctx context.Context, source string, err error, jobName string) {
	severity := SeverityWarning
	count := 0
	if jobName != "" {
		count = n.tracker.Record(jobName)
		if count >= ConsecutiveThreshold {
			severity = SeverityCritical
		}
	}
	n.Notify(ctx, FormatError(source, err, severity, count, n.now().In(n.loc)))
}

func (n *TelegramNotifier) ResetFailures(jobName string) {
	n.tracker.Reset(jobName)
}
