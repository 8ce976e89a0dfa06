package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
)

// SetCalendar provides the content calendar used by /start and
// /schedule.
func (b *Bot) SetCalendar(cal *calendar.Calendar) {
	b.cal = cal
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.Chat.ID) {
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		b.reply(ctx, b.welcomeText())
	case "schedule":
		b.reply(ctx, b.scheduleText())
	case "status":
		b.reply(ctx, b.statusText())
	case "pause":
		b.control.Pause(ctx)
		b.reply(ctx, "⏸️ 스케줄러 일시정지. 생성/게시 작업이 중단됩니다. (/resume 으로 재개)")
	case "resume":
		b.control.Resume(ctx)
		b.reply(ctx, "▶️ 스케줄러 재개.")
	case "dx":
		b.adHoc(ctx, draft.PlatformX, args)
	case "di":
		b.adHoc(ctx, draft.PlatformInstagram, args)
	case "generate":
		b.reply(ctx, "📦 D+2 초안 일괄 생성을 시작합니다...")
		go func() {
			if err := b.pipeline.GenerateDailyDrafts(ctx); err != nil {
				logger.Error(ctx, "telegram: manual generation failed", "err", err)
			}
		}()
	default:
		b.reply(ctx, "알 수 없는 명령어입니다. /start 로 사용법을 확인하세요.")
	}
}

func (b *Bot) adHoc(ctx context.Context, platform draft.Platform, formatKey string) {
	name := "X 초안"
	if platform == draft.PlatformInstagram {
		name = "IG 화보"
	}
	b.reply(ctx, fmt.Sprintf("🤖 %s 생성 중...", name))
	go func() {
		if err := b.pipeline.AdHocDraft(ctx, platform, formatKey); err != nil {
			logger.Error(ctx, "telegram: ad-hoc draft failed", "platform", platform, "err", err)
			b.reply(ctx, fmt.Sprintf("❌ 초안 생성 실패: %v", err))
		}
	}()
}

func (b *Bot) welcomeText() string {
	lines := []string{
		"🤖 *mystyleKPOP SNS Bot*",
		"",
		b.scheduleText(),
		"",
		"📋 *운영 흐름:*",
		"  9:00 — D+2 초안 일괄 생성 → 검수 요청",
		"  승인 → 이틀 후 예약 시간에 자동 게시",
		"  거부 → 새 초안 자동 재생성",
		"  미승인 → 예약 시간에 대기 초안 자동 게시",
		"",
		"/dx /di — 수동 초안, /schedule — 오늘 편성,",
		"/pause /resume — 스케줄러 제어, /status — 상태",
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) scheduleText() string {
	if b.cal == nil {
		return "편성표를 불러올 수 없습니다."
	}
	now := time.Now().In(b.cal.Location())
	sched := b.cal.ScheduleFor(now)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 오늘 (%s요일) 편성:\n", calendar.DayName(int(now.Weekday()))))
	for _, s := range sched.X {
		sb.WriteString(fmt.Sprintf("  X %d:00 — %s\n", s.Hour, calendar.FormatName(s.Format)))
	}
	for _, s := range sched.IG {
		sb.WriteString(fmt.Sprintf("  IG %d:00 — %s\n", s.Hour, calendar.FormatName(s.Format)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) statusText() string {
	state := "▶️ 실행 중"
	if b.control.IsPaused() {
		state = "⏸️ 일시정지"
	}
	return fmt.Sprintf("스케줄러: %s", state)
}
