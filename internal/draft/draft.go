// Package draft defines the content units that move through the review
// and publishing pipeline.
package draft

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Platform identifies a social network the bot publishes to.
type Platform string

const (
	PlatformX         Platform = "x"
	PlatformInstagram Platform = "instagram"
)

// slotToken is the short platform token used inside slot keys
// ("x" / "ig"), distinct from the full platform name.
func (p Platform) slotToken() string {
	if p == PlatformInstagram {
		return "ig"
	}
	return string(p)
}

func platformFromToken(tok string) (Platform, error) {
	switch tok {
	case "x":
		return PlatformX, nil
	case "ig", "instagram":
		return PlatformInstagram, nil
	default:
		return "", fmt.Errorf("unknown platform token %q", tok)
	}
}

// SlotKey identifies one scheduled publishing opportunity: a platform
// and hour on a specific date. Two keys are equal iff all three fields
// match, so SlotKey is usable as a map key.
type SlotKey struct {
	Date     string // "YYYY-MM-DD" in the reference timezone
	Platform Platform
	Hour     int
}

// String renders the canonical form, e.g. "2026-02-28_x_10".
func (k SlotKey) String() string {
	return fmt.Sprintf("%s_%s_%d", k.Date, k.Platform.slotToken(), k.Hour)
}

// DatePrefix reports whether the key belongs to the given date.
func (k SlotKey) DatePrefix(dateStr string) bool {
	return k.Date == dateStr
}

// ParseSlotKey parses the canonical "YYYY-MM-DD_platform_hour" form.
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return SlotKey{}, fmt.Errorf("invalid slot key %q", s)
	}
	if _, err := time.Parse("2006-01-02", parts[0]); err != nil {
		return SlotKey{}, fmt.Errorf("invalid slot key date %q: %w", parts[0], err)
	}
	platform, err := platformFromToken(parts[1])
	if err != nil {
		return SlotKey{}, fmt.Errorf("invalid slot key %q: %w", s, err)
	}
	hour, err := strconv.Atoi(parts[2])
	if err != nil || hour < 0 || hour > 23 {
		return SlotKey{}, fmt.Errorf("invalid slot key hour %q", parts[2])
	}
	return SlotKey{Date: parts[0], Platform: platform, Hour: hour}, nil
}

// Draft is a generated content payload awaiting or past review.
type Draft struct {
	Text           string   `json:"text"`
	FormatKey      string   `json:"formatKey"`
	Platform       Platform `json:"platform"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Artist         string   `json:"artist,omitempty"`
	ImageDirection string   `json:"imageDirection,omitempty"`

	// SlotKey is set only for scheduler-originated drafts. Ad-hoc
	// drafts requested from chat carry no slot.
	SlotKey       *SlotKey `json:"slotKey,omitempty"`
	ScheduledHour int      `json:"scheduledHour,omitempty"`
}

// Publishable reports whether the draft may be sent to its platform.
// Instagram requires an image; X falls back to a text-only post.
func (d *Draft) Publishable() error {
	if d.Text == "" {
		return fmt.Errorf("draft has no text")
	}
	if d.Platform == PlatformInstagram && d.ImageURL == "" {
		return fmt.Errorf("instagram draft %q has no image", d.FormatKey)
	}
	return nil
}

// ImageURLs returns the image list in the form publish clients expect.
func (d *Draft) ImageURLs() []string {
	if d.ImageURL == "" {
		return nil
	}
	return []string{d.ImageURL}
}
