package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/draft"
)

const (
	callbackApprove = "approve"
	callbackReject  = "reject"

	// Telegram photo captions are capped at 1024 characters.
	maxCaptionLen = 1024
)

func decisionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ 승인", callbackApprove),
			tgbotapi.NewInlineKeyboardButtonData("🗑 거부", callbackReject),
		),
	)
}

// formatPreview renders the review message for a draft.
func formatPreview(d draft.Draft) string {
	var sb strings.Builder

	platform := "X"
	if d.Platform == draft.PlatformInstagram {
		platform = "IG"
	}
	if d.SlotKey != nil {
		sb.WriteString(fmt.Sprintf("[예약:%s] %s %d:00 — %s\n\n",
			d.SlotKey.Date, platform, d.SlotKey.Hour, calendar.FormatName(d.FormatKey)))
	} else {
		sb.WriteString(fmt.Sprintf("[수동] %s — %s\n\n", platform, calendar.FormatName(d.FormatKey)))
	}
	sb.WriteString(d.Text)
	if d.Artist != "" {
		sb.WriteString(fmt.Sprintf("\n\n🎤 %s", d.Artist))
	}
	return sb.String()
}

func truncateCaption(s string) string {
	if len(s) <= maxCaptionLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxCaptionLen-3 {
		return s
	}
	return string(runes[:maxCaptionLen-3]) + "..."
}
