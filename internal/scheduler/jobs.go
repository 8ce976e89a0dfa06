package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/notify"
)

// Pipeline is the orchestrator surface the timetable drives.
type Pipeline interface {
	GenerateDailyDrafts(ctx context.Context) error
	PublishSlot(ctx context.Context, key draft.SlotKey) error
	RemindSlot(ctx context.Context, key draft.SlotKey)
	RemindTomorrow(ctx context.Context)
}

// Insights is the analytics/editorial collaborator. These jobs inform
// future content direction and run even while the scheduler is paused.
type Insights interface {
	AnalyticsReport(ctx context.Context) (string, error)
	RunEditorial(ctx context.Context, period string) error
}

// Timetable builds the full daily job table:
//
//	09:00        D+2 draft batch generation
//	10/15/20:00  X slot publishing
//	12/18:00     IG slot publishing
//	30m before each slot: unapproved reminder
//	21:00        tomorrow's unapproved digest
//	00:00        analytics report
//	01:00-04:00  editorial analysis (always-on, pause-exempt)
func Timetable(pipeline Pipeline, insights Insights, notifier notify.Notifier, loc *time.Location, now func() time.Time) []Job {
	if now == nil {
		now = time.Now
	}
	todayKey := func(platform draft.Platform, hour int) draft.SlotKey {
		return draft.SlotKey{
			Date:     now().In(loc).Format("2006-01-02"),
			Platform: platform,
			Hour:     hour,
		}
	}

	jobs := []Job{
		{
			Name: "daily_generation",
			Spec: "0 9 * * *",
			Handler: func(ctx context.Context) error {
				return pipeline.GenerateDailyDrafts(ctx)
			},
		},
		{
			Name: "remind_tomorrow",
			Spec: "0 21 * * *",
			// The evening digest is informational; it runs even when
			// publishing is paused so gaps stay visible.
			AlwaysRun: true,
			Handler: func(ctx context.Context) error {
				pipeline.RemindTomorrow(ctx)
				return nil
			},
		},
		{
			Name:      "analytics_report",
			Spec:      "0 0 * * *",
			AlwaysRun: true,
			Handler: func(ctx context.Context) error {
				report, err := insights.AnalyticsReport(ctx)
				if err != nil {
					return err
				}
				if report != "" {
					notifier.Notify(ctx, report)
				}
				return nil
			},
		},
	}

	publishSlots := []struct {
		platform draft.Platform
		hour     int
	}{
		{draft.PlatformX, 10},
		{draft.PlatformInstagram, 12},
		{draft.PlatformX, 15},
		{draft.PlatformInstagram, 18},
		{draft.PlatformX, 20},
	}
	for _, slot := range publishSlots {
		slot := slot
		jobs = append(jobs,
			Job{
				Name: jobName("publish", slot.platform, slot.hour),
				Spec: cronAt(slot.hour, 0),
				Handler: func(ctx context.Context) error {
					return pipeline.PublishSlot(ctx, todayKey(slot.platform, slot.hour))
				},
			},
			Job{
				Name: jobName("remind", slot.platform, slot.hour),
				Spec: cronAt(slot.hour-1, 30),
				Handler: func(ctx context.Context) error {
					pipeline.RemindSlot(ctx, todayKey(slot.platform, slot.hour))
					return nil
				},
			},
		)
	}

	editorial := []struct {
		period string
		spec   string
	}{
		{"daily", "0 1 * * *"},
		{"weekly", "0 2 * * 0"},
		{"monthly", "0 3 1 * *"},
		{"quarterly", "0 4 1 1,4,7,10 *"},
	}
	for _, e := range editorial {
		e := e
		jobs = append(jobs, Job{
			Name:      "editorial_" + e.period,
			Spec:      e.spec,
			AlwaysRun: true,
			Handler: func(ctx context.Context) error {
				logger.Info(ctx, "scheduler: editorial analysis", "period", e.period)
				return insights.RunEditorial(ctx, e.period)
			},
		})
	}

	return jobs
}

func jobName(kind string, platform draft.Platform, hour int) string {
	p := "x"
	if platform == draft.PlatformInstagram {
		p = "ig"
	}
	return fmt.Sprintf("%s_%s_%02d", kind, p, hour)
}

func cronAt(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}
