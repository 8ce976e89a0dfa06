package orchestrator

import (
	"context"
	"fmt"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/publish"
)

// PublishSlot reconciles a slot at its scheduled hour:
//
//  1. approved queue entry -> publish it and dequeue regardless of
//     outcome (a failed publish is surfaced, not retried),
//  2. otherwise a pending entry for the slot -> implicit approval:
//     publish and mark auto_posted / auto_post_failed,
//  3. otherwise report the gap. Never silent.
func (o *Orchestrator) PublishSlot(ctx context.Context, key draft.SlotKey) error {
	if entry, ok := o.queue.Peek(key); ok {
		result := o.publishDraft(ctx, entry.Draft)
		o.queue.Dequeue(ctx, key)
		o.notifyPublishOutcome(ctx, entry.Draft, result, "예약 게시")
		if !result.Success {
			return fmt.Errorf("publish failed for %s: %s", key.String(), result.Error)
		}
		return nil
	}

	if handle, d, ok := o.pending.FindBySlotKey(key); ok {
		// Review timed out without a decision. Dropping scheduled
		// content silently is worse than posting the draft as-is, so
		// the slot auto-publishes. Deliberate product policy.
		logger.Info(ctx, "orchestrator: auto-publishing unreviewed draft", "slot", key.String())
		result := o.publishDraft(ctx, d)

		status := draft.StatusAutoPosted
		var cause error
		if !result.Success {
			status = draft.StatusAutoPostFailed
			cause = fmt.Errorf("%s", result.Error)
		}
		o.pending.Transition(ctx, handle, status, cause)
		o.notifyPublishOutcome(ctx, d, result, "⏰ 미승인 자동 게시")
		if !result.Success {
			return fmt.Errorf("auto-publish failed for %s: %s", key.String(), result.Error)
		}
		return nil
	}

	o.notifier.Notify(ctx, fmt.Sprintf(
		"🕳️ %s %d:00 — 게시할 초안이 없습니다 (승인도 대기도 없음).", key.Date, key.Hour))
	return nil
}

// publishDraft runs the external publish call with a bounded timeout
// and normalizes errors into the result.
func (o *Orchestrator) publishDraft(ctx context.Context, d draft.Draft) publish.PostResult {
	if err := d.Publishable(); err != nil {
		return publish.PostResult{Platform: d.Platform, Success: false, Error: err.Error()}
	}

	pubCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	result, err := o.publisher.Publish(pubCtx, d.Platform, d.Text, d.ImageURLs())
	if err != nil {
		return publish.PostResult{Platform: d.Platform, Success: false, Error: err.Error()}
	}
	return result
}

func (o *Orchestrator) notifyPublishOutcome(ctx context.Context, d draft.Draft, result publish.PostResult, label string) {
	name := calendar.FormatName(d.FormatKey)
	if result.Success {
		o.notifier.Notify(ctx, fmt.Sprintf(
			"🚀 %s 성공 — %s / %s (id: %s)", label, d.Platform, name, result.ID))
		return
	}
	o.notifier.Notify(ctx, fmt.Sprintf(
		"❌ %s 실패 — %s / %s\n%s\n수동 재시도가 필요합니다.", label, d.Platform, name, result.Error))
}

// RemindSlot sends the 30-minutes-before reminder when a slot has no
// approved entry: whatever is still pending will auto-publish.
func (o *Orchestrator) RemindSlot(ctx context.Context, key draft.SlotKey) {
	if _, ok := o.queue.Peek(key); ok {
		return
	}

	if _, _, ok := o.pending.FindBySlotKey(key); ok {
		o.notifier.Notify(ctx, fmt.Sprintf(
			"⏳ %s %d:00 슬롯이 아직 미승인 상태입니다.\n30분 후 대기 중인 초안이 자동 게시됩니다.",
			key.Date, key.Hour))
		return
	}
	o.notifier.Notify(ctx, fmt.Sprintf(
		"⚠️ %s %d:00 슬롯에 초안이 없습니다. 이 슬롯은 비어있는 채로 지나갑니다.",
		key.Date, key.Hour))
}

// RemindTomorrow reports every slot of the next day that is still
// unapproved, as an evening digest.
func (o *Orchestrator) RemindTomorrow(ctx context.Context) {
	tomorrow := o.now().In(o.cal.Location()).AddDate(0, 0, 1)
	slots := o.cal.Slots(tomorrow)

	var unapproved []draft.SlotKey
	for _, key := range slots {
		if _, ok := o.queue.Peek(key); !ok {
			unapproved = append(unapproved, key)
		}
	}
	if len(unapproved) == 0 {
		o.notifier.Notify(ctx, fmt.Sprintf(
			"🌙 내일 (%s) 모든 슬롯이 승인 완료 상태입니다.", o.cal.DateStr(tomorrow)))
		return
	}

	msg := fmt.Sprintf("🌙 내일 (%s) 미승인 슬롯 %d개:\n", o.cal.DateStr(tomorrow), len(unapproved))
	for _, key := range unapproved {
		msg += fmt.Sprintf("  • %s %d:00\n", key.Platform, key.Hour)
	}
	msg += "미승인 슬롯은 대기 초안이 있으면 자동 게시됩니다."
	o.notifier.Notify(ctx, msg)
}

// Restore reloads queue, pending registry and any other recoverable
// state after a restart. The process must come up even when recovery
// fails; the operator is loudly told what may have been lost.
func (o *Orchestrator) Restore(ctx context.Context) {
	if err := o.queue.Restore(ctx); err != nil {
		logger.Error(ctx, "orchestrator: queue restore failed", "err", err)
		o.notifier.Notify(ctx,
			"🚨 재시작 복구 실패: 승인 큐를 복원하지 못했습니다. 진행 중이던 승인이 유실되었을 수 있습니다.")
	}
	if err := o.pending.Restore(ctx); err != nil {
		logger.Error(ctx, "orchestrator: pending restore failed", "err", err)
		o.notifier.Notify(ctx,
			"🚨 재시작 복구 실패: 검수 대기 초안을 복원하지 못했습니다. 진행 중이던 검수가 유실되었을 수 있습니다.")
	}
}
