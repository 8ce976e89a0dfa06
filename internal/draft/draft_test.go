package draft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/draft"
)

func TestSlotKey(t *testing.T) {
	t.Parallel()

	t.Run("String", func(t *testing.T) {
		key := draft.SlotKey{Date: "2026-02-28", Platform: draft.PlatformX, Hour: 10}
		require.Equal(t, "2026-02-28_x_10", key.String())

		ig := draft.SlotKey{Date: "2026-02-28", Platform: draft.PlatformInstagram, Hour: 12}
		require.Equal(t, "2026-02-28_ig_12", ig.String())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		for _, raw := range []string{"2026-03-01_x_10", "2026-03-01_ig_18"} {
			key, err := draft.ParseSlotKey(raw)
			require.NoError(t, err)
			require.Equal(t, raw, key.String())
		}
	})

	t.Run("Equality", func(t *testing.T) {
		a := draft.SlotKey{Date: "2026-03-01", Platform: draft.PlatformX, Hour: 10}
		b := draft.SlotKey{Date: "2026-03-01", Platform: draft.PlatformX, Hour: 10}
		require.True(t, a == b)

		c := draft.SlotKey{Date: "2026-03-01", Platform: draft.PlatformX, Hour: 15}
		require.False(t, a == c)
	})

	t.Run("Invalid", func(t *testing.T) {
		invalid := []string{
			"",
			"2026-03-01_x",
			"notadate_x_10",
			"2026-03-01_tiktok_10",
			"2026-03-01_x_99",
			"2026-03-01_x_ten",
		}
		for _, raw := range invalid {
			_, err := draft.ParseSlotKey(raw)
			require.Error(t, err, "input %q", raw)
		}
	})

	t.Run("DatePrefix", func(t *testing.T) {
		key := draft.SlotKey{Date: "2026-03-01", Platform: draft.PlatformX, Hour: 10}
		require.True(t, key.DatePrefix("2026-03-01"))
		require.False(t, key.DatePrefix("2026-03-02"))
	})
}

func TestDraftPublishable(t *testing.T) {
	t.Parallel()

	t.Run("XTextOnly", func(t *testing.T) {
		d := draft.Draft{Text: "hello", Platform: draft.PlatformX}
		require.NoError(t, d.Publishable())
	})

	t.Run("InstagramRequiresImage", func(t *testing.T) {
		d := draft.Draft{Text: "hello", Platform: draft.PlatformInstagram}
		require.Error(t, d.Publishable())

		d.ImageURL = "https://img.example/1.png"
		require.NoError(t, d.Publishable())
	})

	t.Run("EmptyText", func(t *testing.T) {
		d := draft.Draft{Platform: draft.PlatformX}
		require.Error(t, d.Publishable())
	})
}

func TestImageURLs(t *testing.T) {
	t.Parallel()

	d := draft.Draft{Text: "t", Platform: draft.PlatformX}
	require.Nil(t, d.ImageURLs())

	d.ImageURL = "https://img.example/1.png"
	require.Equal(t, []string{"https://img.example/1.png"}, d.ImageURLs())
}
