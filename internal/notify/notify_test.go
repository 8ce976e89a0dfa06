package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/notify"
)

type captureSender struct {
	sent []string
	err  error
}

func (s *captureSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg.Text)
	}
	return tgbotapi.Message{}, s.err
}

func TestTrackerConsecutiveFailures(t *testing.T) {
	t.Parallel()
	tr := notify.NewTracker()

	require.Equal(t, 0, tr.Count("publish_x_10"))
	require.Equal(t, 1, tr.Record("publish_x_10"))
	require.Equal(t, 2, tr.Record("publish_x_10"))

	// Independent jobs do not share counters.
	require.Equal(t, 1, tr.Record("publish_ig_12"))

	tr.Reset("publish_x_10")
	require.Equal(t, 0, tr.Count("publish_x_10"))
	require.Equal(t, 1, tr.Count("publish_ig_12"))
}

func TestFormatError(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	warn := notify.FormatError("publish", errors.New("boom"), notify.SeverityWarning, 1, now)
	require.Contains(t, warn, "에러 알림")
	require.Contains(t, warn, "`publish`")
	require.Contains(t, warn, "boom")
	require.NotContains(t, warn, "연속")

	crit := notify.FormatError("publish", errors.New("boom"), notify.SeverityCritical, 3, now)
	require.Contains(t, crit, "긴급 에러")
	require.Contains(t, crit, "연속 3회")
}

func TestNotifyErrorEscalatesAtThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sender := &captureSender{}
	n := notify.NewTelegram(sender, 1234, time.UTC)

	err := errors.New("api timeout")
	for i := 0; i < notify.ConsecutiveThreshold; i++ {
		n.NotifyError(ctx, "publish", err, "publish_x_10")
	}

	require.Len(t, sender.sent, 3)
	require.Contains(t, sender.sent[0], "에러 알림")
	require.Contains(t, sender.sent[1], "에러 알림")
	require.NotContains(t, sender.sent[1], "긴급")
	require.Contains(t, sender.sent[2], "긴급 에러")
	require.Contains(t, sender.sent[2], "연속 3회")

	// One success resets the streak for that job.
	n.ResetFailures("publish_x_10")
	n.NotifyError(ctx, "publish", err, "publish_x_10")
	require.Contains(t, sender.sent[3], "에러 알림")
	require.NotContains(t, sender.sent[3], "긴급")
}

func TestNotifyErrorWithoutJobNameNeverEscalates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sender := &captureSender{}
	n := notify.NewTelegram(sender, 1234, time.UTC)

	for i := 0; i < 5; i++ {
		n.NotifyError(ctx, "restore", errors.New("db locked"), "")
	}
	for _, text := range sender.sent {
		require.NotContains(t, text, "긴급")
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	sender := &captureSender{err: errors.New("telegram down")}
	n := notify.NewTelegram(sender, 1234, time.UTC)

	// Must not panic or propagate.
	n.Notify(context.Background(), "hello")
	require.Len(t, sender.sent, 1)
}
