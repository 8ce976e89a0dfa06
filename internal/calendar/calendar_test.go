package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/draft"
)

func mustKST(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func TestScheduledFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, "virtual_influencer_ootd",
		calendar.ScheduledFormat(draft.PlatformX, time.Monday, 10))
	require.Equal(t, "comeback_lookbook",
		calendar.ScheduledFormat(draft.PlatformInstagram, time.Monday, 12))

	// No slot at that hour.
	require.Empty(t, calendar.ScheduledFormat(draft.PlatformX, time.Monday, 11))
	require.Empty(t, calendar.ScheduledFormat(draft.PlatformInstagram, time.Monday, 10))
}

func TestFormatForNow(t *testing.T) {
	t.Parallel()

	loc := mustKST(t)
	cal := calendar.New(loc)

	// 2026-03-02 is a Monday.
	monday := func(hour int) time.Time {
		return time.Date(2026, 3, 2, hour, 30, 0, 0, loc)
	}

	// Latest slot at or before the current hour.
	require.Equal(t, "virtual_influencer_ootd", cal.FormatForNow(draft.PlatformX, monday(10)))
	require.Equal(t, "virtual_influencer_ootd", cal.FormatForNow(draft.PlatformX, monday(14)))
	require.Equal(t, "highfashion_tribute", cal.FormatForNow(draft.PlatformX, monday(15)))
	require.Equal(t, "comeback_lookbook", cal.FormatForNow(draft.PlatformX, monday(23)))

	// Before the first slot: fall back to the day's first entry.
	require.Equal(t, "virtual_influencer_ootd", cal.FormatForNow(draft.PlatformX, monday(7)))
}

func TestSlots(t *testing.T) {
	t.Parallel()

	loc := mustKST(t)
	cal := calendar.New(loc)

	// 2026-03-02 is a Monday: X at 10/15/20, IG at 12/18.
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, loc)
	slots := cal.Slots(day)
	require.Len(t, slots, 5)

	var got []string
	for _, key := range slots {
		got = append(got, key.String())
	}
	require.Equal(t, []string{
		"2026-03-02_x_10",
		"2026-03-02_ig_12",
		"2026-03-02_x_15",
		"2026-03-02_ig_18",
		"2026-03-02_x_20",
	}, got)
}

func TestDateStrUsesReferenceTimezone(t *testing.T) {
	t.Parallel()

	loc := mustKST(t)
	cal := calendar.New(loc)

	// 23:00 UTC on the 1st is already the 2nd in KST.
	utc := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	require.Equal(t, "2026-03-02", cal.DateStr(utc))
}

func TestFormatName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "컴백 예측 룩북", calendar.FormatName("comeback_lookbook"))
	require.Equal(t, "unknown_format", calendar.FormatName("unknown_format"))
}

func TestNoImageFormats(t *testing.T) {
	t.Parallel()

	require.True(t, calendar.NoImageFormats["fan_discussion"])
	require.False(t, calendar.NoImageFormats["comeback_lookbook"])
}
