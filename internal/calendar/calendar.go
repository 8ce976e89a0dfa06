// Package calendar maps calendar slots (platform, weekday, hour) to
// content formats. The mapping is a fixed editorial plan; all lookups
// are pure.
package calendar

import (
	"sort"
	"time"

	"github.com/mystylekpop/snsbot/internal/draft"
)

// DefaultFormat is returned when a weekday has no plan configured.
const DefaultFormat = "style_editorial"

// PublishHours per platform, in the reference timezone.
var (
	XHours  = []int{10, 15, 20}
	IGHours = []int{12, 18}
)

// xPlan is the weekday plan for X. Weekday 0 is Sunday.
var xPlan = map[time.Weekday]map[int]string{
	time.Sunday: {
		10: "airport_fashion",
		15: "retro_remake",
		20: "festival_look",
	},
	time.Monday: {
		10: "virtual_influencer_ootd",
		15: "highfashion_tribute",
		20: "comeback_lookbook",
	},
	time.Tuesday: {
		10: "airport_fashion",
		15: "street_snap",
		20: "weekly_trend",
	},
	time.Wednesday: {
		10: "seasonal_curation",
		15: "archetype_battle",
		20: "retro_remake",
	},
	time.Thursday: {
		10: "street_snap",
		15: "festival_look",
		20: "airport_fashion",
	},
	time.Friday: {
		10: "virtual_influencer_ootd",
		15: "highfashion_tribute",
		20: "comeback_lookbook",
	},
	time.Saturday: {
		10: "seasonal_curation",
		15: "weekly_trend",
		20: "archetype_battle",
	},
}

// igPlan is the weekday plan for Instagram. Visual-heavy formats only.
var igPlan = map[time.Weekday]map[int]string{
	time.Sunday:    {12: "style_editorial", 18: "vibe_alike"},
	time.Monday:    {12: "comeback_lookbook", 18: "highfashion_tribute"},
	time.Tuesday:   {12: "airport_fashion", 18: "weekly_trend"},
	time.Wednesday: {12: "stage_look", 18: "retro_remake"},
	time.Thursday:  {12: "festival_look", 18: "street_snap"},
	time.Friday:    {12: "style_editorial", 18: "comeback_lookbook"},
	time.Saturday:  {12: "vibe_alike", 18: "seasonal_curation"},
}

// NoImageFormats never get an image attached (text-only class).
var NoImageFormats = map[string]bool{
	"fan_discussion": true,
}

// Slot is one (hour, format) pair in a day's plan.
type Slot struct {
	Hour   int
	Format string
}

// DaySchedule is the full plan for one date.
type DaySchedule struct {
	X  []Slot
	IG []Slot
}

// Calendar resolves slots in a fixed reference timezone.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar anchored to the given reference timezone.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location returns the reference timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DateStr formats a time as "YYYY-MM-DD" in the reference timezone.
func (c *Calendar) DateStr(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}

func plan(platform draft.Platform) map[time.Weekday]map[int]string {
	if platform == draft.PlatformInstagram {
		return igPlan
	}
	return xPlan
}

// ScheduledFormat returns the format planned for (platform, weekday,
// hour), or "" when that hour has no slot.
func ScheduledFormat(platform draft.Platform, weekday time.Weekday, hour int) string {
	day, ok := plan(platform)[weekday]
	if !ok {
		return ""
	}
	return day[hour]
}

// FormatForNow returns the format for the latest planned hour at or
// before now, falling back to the day's first slot, then to
// DefaultFormat when the weekday has no plan at all.
func (c *Calendar) FormatForNow(platform draft.Platform, now time.Time) string {
	local := now.In(c.loc)
	day, ok := plan(platform)[local.Weekday()]
	if !ok || len(day) == 0 {
		return DefaultFormat
	}

	hours := make([]int, 0, len(day))
	for h := range day {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	matched := hours[0]
	for _, h := range hours {
		if local.Hour() >= h {
			matched = h
		}
	}
	if f := day[matched]; f != "" {
		return f
	}
	return DefaultFormat
}

// ScheduleFor returns the full plan for the date of t.
func (c *Calendar) ScheduleFor(t time.Time) DaySchedule {
	weekday := t.In(c.loc).Weekday()
	return DaySchedule{
		X:  daySlots(xPlan[weekday]),
		IG: daySlots(igPlan[weekday]),
	}
}

// Slots enumerates every slot for the date of t in calendar order
// (by hour, X before IG at equal hours).
func (c *Calendar) Slots(t time.Time) []draft.SlotKey {
	dateStr := c.DateStr(t)
	sched := c.ScheduleFor(t)

	keys := make([]draft.SlotKey, 0, len(sched.X)+len(sched.IG))
	for _, s := range sched.X {
		keys = append(keys, draft.SlotKey{Date: dateStr, Platform: draft.PlatformX, Hour: s.Hour})
	}
	for _, s := range sched.IG {
		keys = append(keys, draft.SlotKey{Date: dateStr, Platform: draft.PlatformInstagram, Hour: s.Hour})
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Hour < keys[j].Hour })
	return keys
}

func daySlots(day map[int]string) []Slot {
	slots := make([]Slot, 0, len(day))
	for h, f := range day {
		slots = append(slots, Slot{Hour: h, Format: f})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Hour < slots[j].Hour })
	return slots
}
