// Package orchestrator drives the draft lifecycle: ahead-of-time
// generation, review reconciliation at publish time, the auto-publish
// backstop, and reminders.
//
// Per slot the states are:
//
//	unplanned -> pending-review -> {approved | rejected}
//	          -> published | auto-published | publish-failed
//
// Rejection loops back to pending-review through regeneration.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/content"
	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/notify"
	"github.com/mystylekpop/snsbot/internal/pending"
	"github.com/mystylekpop/snsbot/internal/publish"
	"github.com/mystylekpop/snsbot/internal/queue"
)

// LeadDays is how far ahead of the publish date drafts are generated.
const LeadDays = 2

// Reviewer surfaces a draft to the human reviewer and returns the
// message handle the decision will come back under.
type Reviewer interface {
	PresentForReview(ctx context.Context, d draft.Draft) (pending.Handle, error)
}

// ContentGenerator is the ordered-strategy content source (the chain
// of LLM and template generators).
type ContentGenerator interface {
	GenerateContent(ctx context.Context, platform draft.Platform, formatKey string) (*content.Generated, error)
}

// Orchestrator owns all transitions between the pending registry and
// the approval queue.
type Orchestrator struct {
	cal       *calendar.Calendar
	queue     *queue.Queue
	pending   *pending.Registry
	generator ContentGenerator
	images    content.ImageGenerator
	publisher publish.Publisher
	notifier  notify.Notifier
	reviewer  Reviewer

	callTimeout time.Duration
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithCallTimeout bounds each external collaborator call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.callTimeout = d }
}

// New wires the orchestrator. All collaborators are required.
func New(
	cal *calendar.Calendar,
	q *queue.Queue,
	reg *pending.Registry,
	generator ContentGenerator,
	images content.ImageGenerator,
	publisher publish.Publisher,
	notifier notify.Notifier,
	reviewer Reviewer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		cal:         cal,
		queue:       q,
		pending:     reg,
		generator:   generator,
		images:      images,
		publisher:   publisher,
		notifier:    notifier,
		reviewer:    reviewer,
		callTimeout: 15 * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Queue exposes the approval queue for the review channel.
func (o *Orchestrator) Queue() *queue.Queue { return o.queue }

// Pending exposes the pending registry for the review channel.
func (o *Orchestrator) Pending() *pending.Registry { return o.pending }

// Calendar exposes the content calendar.
func (o *Orchestrator) Calendar() *calendar.Calendar { return o.cal }

// GenerateDailyDrafts generates the full draft batch for the date
// LeadDays ahead and surfaces every draft for review.
func (o *Orchestrator) GenerateDailyDrafts(ctx context.Context) error {
	target := o.now().In(o.cal.Location()).AddDate(0, 0, LeadDays)
	return o.GenerateForDate(ctx, target)
}

// GenerateForDate generates and registers drafts for every slot of the
// target date. A failing slot is reported and skipped; the batch always
// runs to completion.
func (o *Orchestrator) GenerateForDate(ctx context.Context, target time.Time) error {
	dateStr := o.cal.DateStr(target)

	// Stale approvals from an earlier run for the same date must not
	// outlive their drafts.
	if cleared := o.queue.ClearForDate(ctx, dateStr); cleared > 0 {
		logger.Info(ctx, "orchestrator: cleared stale queue entries", "date", dateStr, "count", cleared)
	}

	slots := o.cal.Slots(target)
	ok, failed := 0, 0
	for _, key := range slots {
		formatKey := calendar.ScheduledFormat(key.Platform, target.In(o.cal.Location()).Weekday(), key.Hour)
		if formatKey == "" {
			formatKey = calendar.DefaultFormat
		}
		if err := o.generateSlot(ctx, key, formatKey); err != nil {
			failed++
			logger.Error(ctx, "orchestrator: slot generation failed",
				"slot", key.String(), "format", formatKey, "err", err)
			o.notifier.NotifyError(ctx, "generate:"+key.String(), err, "")
			continue
		}
		ok++
	}

	o.notifier.Notify(ctx, fmt.Sprintf(
		"📦 %s 초안 일괄 생성 완료 — 성공 %d / 실패 %d (총 %d 슬롯)",
		dateStr, ok, failed, len(slots)))

	if failed == len(slots) && len(slots) > 0 {
		return fmt.Errorf("all %d slots failed for %s", len(slots), dateStr)
	}
	return nil
}

// RegenerateForSlot re-runs generation for exactly one slot, used when
// a reviewer rejects a draft. The new draft re-enters pending review.
func (o *Orchestrator) RegenerateForSlot(ctx context.Context, key draft.SlotKey, formatKey string) error {
	if formatKey == "" {
		formatKey = calendar.DefaultFormat
	}
	if err := o.generateSlot(ctx, key, formatKey); err != nil {
		o.notifier.NotifyError(ctx, "regenerate:"+key.String(), err, "")
		return err
	}
	return nil
}

// generateSlot builds one draft: content via the strategy chain, image
// when the format requires one, then registration and review handoff.
func (o *Orchestrator) generateSlot(ctx context.Context, key draft.SlotKey, formatKey string) error {
	genCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	generated, err := o.generator.GenerateContent(genCtx, key.Platform, formatKey)
	cancel()
	if err != nil {
		return fmt.Errorf("content generation: %w", err)
	}

	d := draft.Draft{
		Text:           generated.Text,
		FormatKey:      formatKey,
		Platform:       key.Platform,
		Artist:         generated.Artist,
		ImageDirection: generated.ImageDirection,
		SlotKey:        &key,
		ScheduledHour:  key.Hour,
	}

	if o.needsImage(key.Platform, formatKey) {
		imgCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		url, err := o.images.GenerateImage(imgCtx, &d)
		cancel()
		switch {
		case err == nil:
			d.ImageURL = url
		case key.Platform == draft.PlatformInstagram:
			// An imageless IG draft must never reach review.
			return fmt.Errorf("instagram image generation: %w", err)
		default:
			logger.Warn(ctx, "orchestrator: image failed, posting text-only",
				"slot", key.String(), "err", err)
		}
	}

	handle, err := o.reviewer.PresentForReview(ctx, d)
	if err != nil {
		return fmt.Errorf("present for review: %w", err)
	}
	o.pending.Register(ctx, handle, d)
	return nil
}

func (o *Orchestrator) needsImage(platform draft.Platform, formatKey string) bool {
	if platform == draft.PlatformInstagram {
		return true
	}
	return !calendar.NoImageFormats[formatKey]
}

// AdHocDraft generates a slot-less draft on operator demand. The
// format defaults to whatever the calendar plans for the current hour.
func (o *Orchestrator) AdHocDraft(ctx context.Context, platform draft.Platform, formatKey string) error {
	if formatKey == "" {
		formatKey = o.cal.FormatForNow(platform, o.now())
	}

	genCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	generated, err := o.generator.GenerateContent(genCtx, platform, formatKey)
	cancel()
	if err != nil {
		return fmt.Errorf("content generation: %w", err)
	}

	d := draft.Draft{
		Text:           generated.Text,
		FormatKey:      formatKey,
		Platform:       platform,
		Artist:         generated.Artist,
		ImageDirection: generated.ImageDirection,
	}

	if o.needsImage(platform, formatKey) {
		imgCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		url, err := o.images.GenerateImage(imgCtx, &d)
		cancel()
		switch {
		case err == nil:
			d.ImageURL = url
		case platform == draft.PlatformInstagram:
			return fmt.Errorf("instagram image generation: %w", err)
		}
	}

	handle, err := o.reviewer.PresentForReview(ctx, d)
	if err != nil {
		return fmt.Errorf("present for review: %w", err)
	}
	o.pending.Register(ctx, handle, d)
	return nil
}

// Approve moves a reviewed draft from the pending registry into the
// approval queue. Slot-less drafts are published immediately instead.
func (o *Orchestrator) Approve(ctx context.Context, handle pending.Handle) error {
	entry, ok := o.pending.Get(handle)
	if !ok {
		return fmt.Errorf("no pending draft for handle %d", handle)
	}
	d := entry.Draft

	if d.SlotKey == nil {
		// Ad-hoc draft: approval means publish now.
		result := o.publishDraft(ctx, d)
		status := draft.StatusPublished
		var cause error
		if !result.Success {
			status = draft.StatusPublishFailed
			cause = fmt.Errorf("%s", result.Error)
		}
		o.pending.Transition(ctx, handle, status, cause)
		o.notifyPublishOutcome(ctx, d, result, "즉시 게시")
		return nil
	}

	o.queue.Enqueue(ctx, *d.SlotKey, d)
	o.pending.Transition(ctx, handle, draft.StatusApproved, nil)
	o.notifier.Notify(ctx, fmt.Sprintf(
		"✅ 승인 완료 — %s %d:00 (%s)\n예약 시간에 자동 게시됩니다.",
		d.SlotKey.Date, d.SlotKey.Hour, calendar.FormatName(d.FormatKey)))
	return nil
}

// Reject discards a reviewed draft. For slotted drafts a replacement
// is generated and re-enters review.
func (o *Orchestrator) Reject(ctx context.Context, handle pending.Handle) error {
	entry, ok := o.pending.Get(handle)
	if !ok {
		return fmt.Errorf("no pending draft for handle %d", handle)
	}
	d := entry.Draft
	o.pending.Transition(ctx, handle, draft.StatusRejected, nil)

	if d.SlotKey == nil {
		o.notifier.Notify(ctx, "🗑️ 초안이 폐기되었습니다.")
		return nil
	}

	o.notifier.Notify(ctx, fmt.Sprintf(
		"🔄 %s 초안 재생성 중... (%s)", d.SlotKey.String(), calendar.FormatName(d.FormatKey)))
	return o.RegenerateForSlot(ctx, *d.SlotKey, d.FormatKey)
}
