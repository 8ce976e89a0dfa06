// Package notify delivers operator-facing status and error messages.
// Delivery is fire-and-forget: a failed send is logged, never returned
// to the job that produced the message.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Severity of an error notification.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ConsecutiveThreshold is how many failures in a row of the same named
// job escalate the severity to critical.
const ConsecutiveThreshold = 3

// Notifier is the operator side-channel.
type Notifier interface {
	// Notify sends a plain status message.
	Notify(ctx context.Context, message string)

	// NotifyError reports a failure of the named source. jobName, when
	// non-empty, participates in consecutive-failure escalation.
	NotifyError(ctx context.Context, source string, err error, jobName string)

	// ResetFailures clears the consecutive-failure counter for a job.
	ResetFailures(jobName string)
}

// Tracker counts consecutive failures per job name. Safe for use from
// overlapping cron jobs.
type Tracker struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewTracker returns an empty failure tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: map[string]int{}}
}

// Record increments the counter for jobName and returns the new count.
func (t *Tracker) Record(jobName string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[jobName]++
	return t.counts[jobName]
}

// Reset clears the counter for jobName.
func (t *Tracker) Reset(jobName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.counts, jobName)
}

// Count returns the current counter for jobName.
func (t *Tracker) Count(jobName string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.counts[jobName]
}

// FormatError renders the standard error notification body.
func FormatError(source string, err error, severity Severity, count int, now time.Time) string {
	emoji, label := "⚠️", "에러 알림"
	if severity == SeverityCritical {
		emoji, label = "🚨", "긴급 에러"
	}
	countInfo := ""
	if count > 1 {
		countInfo = fmt.Sprintf(" (연속 %d회)", count)
	}
	return fmt.Sprintf("%s *%s%s*\n📍 Source: `%s`\n💬 %v\n🕐 %s",
		emoji, label, countInfo, source, err, now.Format("2006-01-02 15:04:05"))
}
