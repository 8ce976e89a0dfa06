// Package telegram is the human review channel: draft previews with
// approve/reject buttons, and the operator command surface.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/pending"
)

// Pipeline is the orchestrator surface the review channel drives. The
// bot is attached to the pipeline after construction because each side
// needs the other (the orchestrator presents drafts through the bot).
type Pipeline interface {
	Approve(ctx context.Context, handle pending.Handle) error
	Reject(ctx context.Context, handle pending.Handle) error
	AdHocDraft(ctx context.Context, platform draft.Platform, formatKey string) error
	GenerateDailyDrafts(ctx context.Context) error
}

// Control is the pause-flag surface exposed to chat commands.
type Control interface {
	IsPaused() bool
	Pause(ctx context.Context)
	Resume(ctx context.Context)
}

// BotAPI is the subset of tgbotapi.BotAPI the channel uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the review channel bound to the admin chat.
type Bot struct {
	api         BotAPI
	adminChatID int64
	pipeline    Pipeline
	control     Control
	cal         *calendar.Calendar
}

// New returns a Bot for the admin chat. AttachPipeline must be called
// before Run.
func New(api BotAPI, adminChatID int64, control Control) *Bot {
	return &Bot{api: api, adminChatID: adminChatID, control: control}
}

// AttachPipeline binds the orchestrator.
func (b *Bot) AttachPipeline(p Pipeline) {
	b.pipeline = p
}

// isAdmin gates every interaction to the admin chat.
func (b *Bot) isAdmin(chatID int64) bool {
	return chatID == b.adminChatID
}

// PresentForReview sends the draft preview with the decision keyboard
// and returns the message id as the pending handle.
func (b *Bot) PresentForReview(_ context.Context, d draft.Draft) (pending.Handle, error) {
	preview := formatPreview(d)
	keyboard := decisionKeyboard()

	var (
		sent tgbotapi.Message
		err  error
	)
	if d.ImageURL != "" {
		photo := tgbotapi.NewPhoto(b.adminChatID, tgbotapi.FileURL(d.ImageURL))
		photo.Caption = truncateCaption(preview)
		photo.ParseMode = tgbotapi.ModeMarkdown
		photo.ReplyMarkup = keyboard
		sent, err = b.api.Send(photo)
	} else {
		msg := tgbotapi.NewMessage(b.adminChatID, preview)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = keyboard
		sent, err = b.api.Send(msg)
	}
	if err != nil {
		return 0, fmt.Errorf("send review preview: %w", err)
	}
	return pending.Handle(sent.MessageID), nil
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || !b.isAdmin(query.Message.Chat.ID) {
		return
	}
	handle := pending.Handle(query.Message.MessageID)

	var err error
	var ack string
	switch query.Data {
	case callbackApprove:
		ack = "승인 처리 중..."
		err = b.pipeline.Approve(ctx, handle)
	case callbackReject:
		ack = "초안 폐기"
		err = b.pipeline.Reject(ctx, handle)
	default:
		ack = "알 수 없는 동작"
	}

	if _, reqErr := b.api.Request(tgbotapi.NewCallback(query.ID, ack)); reqErr != nil {
		logger.Error(ctx, "telegram: callback ack failed", "err", reqErr)
	}
	b.clearButtons(ctx, query.Message.Chat.ID, query.Message.MessageID)

	if err != nil {
		logger.Error(ctx, "telegram: decision handling failed", "action", query.Data, "err", err)
		b.reply(ctx, fmt.Sprintf("⚠️ 처리 실패: %v", err))
	}
}

// clearButtons removes the inline keyboard so a decision can't be
// clicked twice.
func (b *Bot) clearButtons(ctx context.Context, chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		logger.Debug(ctx, "telegram: clear buttons failed", "err", err)
	}
}

func (b *Bot) reply(ctx context.Context, text string) {
	msg := tgbotapi.NewMessage(b.adminChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		logger.Error(ctx, "telegram: reply failed", "err", err)
	}
}
