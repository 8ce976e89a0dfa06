package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/control"
	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/storage"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	errors   []string
	resets   []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) NotifyError(ctx context.Context, source string, err error, jobName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, jobName)
}

func (n *recordingNotifier) ResetFailures(jobName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, jobName)
}

func newTestScheduler(t *testing.T) (*Scheduler, *control.Controller, *recordingNotifier) {
	t.Helper()
	ctrl := control.New(storage.NewMemoryStore())
	notifier := &recordingNotifier{}
	return New(time.UTC, ctrl, notifier), ctrl, notifier
}

func TestDispatchRunsJobAndResetsFailures(t *testing.T) {
	t.Parallel()
	s, _, notifier := newTestScheduler(t)

	ran := false
	s.dispatch(Job{
		Name:    "daily_generation",
		Handler: func(ctx context.Context) error { ran = true; return nil },
	})

	require.True(t, ran)
	require.Equal(t, []string{"daily_generation"}, notifier.resets)
	require.Empty(t, notifier.errors)
}

func TestDispatchPauseGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, ctrl, notifier := newTestScheduler(t)
	ctrl.Pause(ctx)

	gated := false
	s.dispatch(Job{
		Name:    "publish_x_10",
		Handler: func(ctx context.Context) error { gated = true; return nil },
	})
	require.False(t, gated)

	// Pause-exempt jobs still run.
	exempt := false
	s.dispatch(Job{
		Name:      "analytics_report",
		AlwaysRun: true,
		Handler:   func(ctx context.Context) error { exempt = true; return nil },
	})
	require.True(t, exempt)

	ctrl.Resume(ctx)
	s.dispatch(Job{
		Name:    "publish_x_10",
		Handler: func(ctx context.Context) error { gated = true; return nil },
	})
	require.True(t, gated)
	require.Empty(t, notifier.errors)
}

func TestDispatchReportsFailure(t *testing.T) {
	t.Parallel()
	s, _, notifier := newTestScheduler(t)

	s.dispatch(Job{
		Name:    "publish_ig_12",
		Handler: func(ctx context.Context) error { return errors.New("graph api 500") },
	})

	require.Equal(t, []string{"publish_ig_12"}, notifier.errors)
	require.Empty(t, notifier.resets)
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	t.Parallel()
	s, _, notifier := newTestScheduler(t)

	require.NotPanics(t, func() {
		s.dispatch(Job{
			Name:    "publish_x_15",
			Handler: func(ctx context.Context) error { panic("boom") },
		})
	})
	require.Equal(t, []string{"publish_x_15"}, notifier.errors)
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestScheduler(t)

	err := s.Register(Job{Name: "broken", Spec: "not a cron spec"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}

type stubPipeline struct {
	published []draft.SlotKey
	reminded  []draft.SlotKey
}

func (p *stubPipeline) GenerateDailyDrafts(ctx context.Context) error { return nil }
func (p *stubPipeline) PublishSlot(ctx context.Context, key draft.SlotKey) error {
	p.published = append(p.published, key)
	return nil
}
func (p *stubPipeline) RemindSlot(ctx context.Context, key draft.SlotKey) {
	p.reminded = append(p.reminded, key)
}
func (p *stubPipeline) RemindTomorrow(ctx context.Context) {}

type stubInsights struct{}

func (stubInsights) AnalyticsReport(ctx context.Context) (string, error) { return "", nil }
func (stubInsights) RunEditorial(ctx context.Context, period string) error {
	return nil
}

func TestTimetable(t *testing.T) {
	t.Parallel()
	fixed := func() time.Time {
		return time.Date(2026, 3, 2, 9, 59, 0, 0, time.UTC)
	}
	pipeline := &stubPipeline{}
	notifier := &recordingNotifier{}
	jobs := Timetable(pipeline, stubInsights{}, notifier, time.UTC, fixed)

	byName := map[string]Job{}
	for _, job := range jobs {
		byName[job.Name] = job
	}

	t.Run("job table", func(t *testing.T) {
		// 3 fixed jobs, 5 publish, 5 reminders, 4 editorial periods.
		require.Len(t, jobs, 17)

		require.Equal(t, "0 9 * * *", byName["daily_generation"].Spec)
		require.False(t, byName["daily_generation"].AlwaysRun)

		require.Equal(t, "0 10 * * *", byName["publish_x_10"].Spec)
		require.Equal(t, "0 12 * * *", byName["publish_ig_12"].Spec)
		require.Equal(t, "0 20 * * *", byName["publish_x_20"].Spec)
		require.Equal(t, "30 9 * * *", byName["remind_x_10"].Spec)
		require.Equal(t, "30 17 * * *", byName["remind_ig_18"].Spec)

		require.True(t, byName["remind_tomorrow"].AlwaysRun)
		require.True(t, byName["analytics_report"].AlwaysRun)
		require.True(t, byName["editorial_weekly"].AlwaysRun)
		require.Equal(t, "0 2 * * 0", byName["editorial_weekly"].Spec)
		require.Equal(t, "0 4 1 1,4,7,10 *", byName["editorial_quarterly"].Spec)
	})

	t.Run("slot key built at fire time", func(t *testing.T) {
		require.NoError(t, byName["publish_x_10"].Handler(context.Background()))
		require.Equal(t, []draft.SlotKey{
			{Date: "2026-03-02", Platform: draft.PlatformX, Hour: 10},
		}, pipeline.published)

		require.NoError(t, byName["remind_ig_12"].Handler(context.Background()))
		require.Equal(t, []draft.SlotKey{
			{Date: "2026-03-02", Platform: draft.PlatformInstagram, Hour: 12},
		}, pipeline.reminded)
	})
}
