package telegram

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/pending"
)

const adminChatID int64 = 777

type fakeAPI struct {
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	nextMsgID int
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.sent = append(a.sent, c)
	a.nextMsgID++
	return tgbotapi.Message{MessageID: a.nextMsgID}, nil
}

func (a *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	a.requests = append(a.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (a *fakeAPI) StopReceivingUpdates() {}

type fakePipeline struct {
	approved []pending.Handle
	rejected []pending.Handle
}

func (p *fakePipeline) Approve(ctx context.Context, handle pending.Handle) error {
	p.approved = append(p.approved, handle)
	return nil
}

func (p *fakePipeline) Reject(ctx context.Context, handle pending.Handle) error {
	p.rejected = append(p.rejected, handle)
	return nil
}

func (p *fakePipeline) AdHocDraft(ctx context.Context, platform draft.Platform, formatKey string) error {
	return nil
}

func (p *fakePipeline) GenerateDailyDrafts(ctx context.Context) error { return nil }

type fakeControl struct {
	paused bool
}

func (c *fakeControl) IsPaused() bool             { return c.paused }
func (c *fakeControl) Pause(ctx context.Context)  { c.paused = true }
func (c *fakeControl) Resume(ctx context.Context) { c.paused = false }

func newTestBot() (*Bot, *fakeAPI, *fakePipeline) {
	api := &fakeAPI{}
	pipeline := &fakePipeline{}
	b := New(api, adminChatID, &fakeControl{})
	b.AttachPipeline(pipeline)
	return b, api, pipeline
}

func TestPresentForReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("text draft", func(t *testing.T) {
		b, api, _ := newTestBot()
		handle, err := b.PresentForReview(ctx, draft.Draft{Text: "hello", Platform: draft.PlatformX})
		require.NoError(t, err)
		require.Equal(t, pending.Handle(1), handle)

		require.Len(t, api.sent, 1)
		msg, ok := api.sent[0].(tgbotapi.MessageConfig)
		require.True(t, ok)
		require.Equal(t, adminChatID, msg.ChatID)
		require.Contains(t, msg.Text, "hello")
		require.NotNil(t, msg.ReplyMarkup)
	})

	t.Run("image draft goes out as photo", func(t *testing.T) {
		b, api, _ := newTestBot()
		key := draft.SlotKey{Date: "2026-03-04", Platform: draft.PlatformInstagram, Hour: 12}
		d := draft.Draft{
			Text:      "lookbook",
			FormatKey: "comeback_lookbook",
			Platform:  draft.PlatformInstagram,
			ImageURL:  "https://img.example.com/look.jpg",
			SlotKey:   &key,
		}
		_, err := b.PresentForReview(ctx, d)
		require.NoError(t, err)

		require.Len(t, api.sent, 1)
		photo, ok := api.sent[0].(tgbotapi.PhotoConfig)
		require.True(t, ok)
		require.Contains(t, photo.Caption, "lookbook")
		require.Contains(t, photo.Caption, "[예약:2026-03-04]")
	})
}

func TestHandleCallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	query := func(chatID int64, messageID int, data string) *tgbotapi.CallbackQuery {
		return &tgbotapi.CallbackQuery{
			ID:   "cb1",
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: messageID,
				Chat:      &tgbotapi.Chat{ID: chatID},
			},
		}
	}

	t.Run("approve", func(t *testing.T) {
		b, api, pipeline := newTestBot()
		b.handleCallback(ctx, query(adminChatID, 42, callbackApprove))

		require.Equal(t, []pending.Handle{42}, pipeline.approved)
		// Ack plus keyboard removal.
		require.Len(t, api.requests, 2)
	})

	t.Run("reject", func(t *testing.T) {
		b, _, pipeline := newTestBot()
		b.handleCallback(ctx, query(adminChatID, 43, callbackReject))
		require.Equal(t, []pending.Handle{43}, pipeline.rejected)
	})

	t.Run("non-admin chat is ignored", func(t *testing.T) {
		b, api, pipeline := newTestBot()
		b.handleCallback(ctx, query(999, 44, callbackApprove))
		require.Empty(t, pipeline.approved)
		require.Empty(t, api.requests)
	})
}

func TestFormatPreview(t *testing.T) {
	t.Parallel()

	key := draft.SlotKey{Date: "2026-03-04", Platform: draft.PlatformX, Hour: 10}
	scheduled := formatPreview(draft.Draft{
		Text:      "본문",
		FormatKey: "airport_fashion",
		Platform:  draft.PlatformX,
		Artist:    "아이브",
		SlotKey:   &key,
	})
	require.Contains(t, scheduled, "[예약:2026-03-04] X 10:00")
	require.Contains(t, scheduled, "본문")
	require.Contains(t, scheduled, "🎤 아이브")

	manual := formatPreview(draft.Draft{Text: "즉석 초안", Platform: draft.PlatformInstagram})
	require.Contains(t, manual, "[수동] IG")
	require.NotContains(t, manual, "예약")
}

func TestTruncateCaption(t *testing.T) {
	t.Parallel()

	short := strings.Repeat("a", maxCaptionLen)
	require.Equal(t, short, truncateCaption(short))

	long := strings.Repeat("a", maxCaptionLen+100)
	got := truncateCaption(long)
	require.Equal(t, maxCaptionLen, utf8.RuneCountInString(got))
	require.True(t, strings.HasSuffix(got, "..."))
}
