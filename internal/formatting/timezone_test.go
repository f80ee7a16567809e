package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// 2025-01-06 17:30 UTC is 18:30 in Berlin, 12:30 in New York and 02:30 next day in Tokyo
var instant = time.Date(2025, time.January, 6, 17, 30, 0, 0, time.UTC)

func TestFormatClientOnly(t *testing.T) {
	t.Parallel()

	occ := domain.ScheduledOccurrence{At: instant, AuthoringTimezone: "Europe/Berlin"}

	got, err := FormatClientOnly(occ, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "Mon, 06 Jan 2025 12:30 EST", got)
	assert.NotContains(t, got, "CET")

	got, err = FormatClientOnly(occ, "")
	require.NoError(t, err)
	assert.Equal(t, "Mon, 06 Jan 2025 18:30 CET", got)

	got, err = FormatClientOnly(occ.WithViewer("Asia/Tokyo"), "")
	require.NoError(t, err)
	assert.Equal(t, "Tue, 07 Jan 2025 02:30 JST", got)
}

func TestFormatClientOnly_NeverRevealsCounterpart(t *testing.T) {
	t.Parallel()

	zones := []string{"Europe/Berlin", "America/New_York", "Asia/Tokyo", "Australia/Sydney", "UTC"}

	for _, authoring := range zones {
		for _, viewer := range zones {
			counterpart, err := Abbreviation(instant, authoring)
			require.NoError(t, err)
			own, err := Abbreviation(instant, viewer)
			require.NoError(t, err)
			if counterpart == own {
				continue
			}

			got, err := FormatClientOnly(domain.ScheduledOccurrence{At: instant, AuthoringTimezone: authoring}, viewer)
			require.NoError(t, err)
			assert.NotContains(t, got, counterpart, "authoring=%s viewer=%s", authoring, viewer)
			assert.Contains(t, got, own)
		}
	}
}

func TestFormatDual(t *testing.T) {
	t.Parallel()

	occ := domain.ScheduledOccurrence{At: instant, AuthoringTimezone: "Europe/Berlin"}

	tests := []struct {
		name   string
		viewer string
		want   string
	}{
		{name: "same zone", viewer: "Europe/Berlin", want: "Mon, 06 Jan 2025 18:30 CET"},
		{name: "different zone same date", viewer: "America/New_York", want: "Mon, 06 Jan 2025 18:30 CET (12:30 EST your time)"},
		{name: "different zone next date", viewer: "Asia/Tokyo", want: "Mon, 06 Jan 2025 18:30 CET (Tue, 07 Jan 2025 02:30 JST your time)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatDual(occ, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_UnknownTimezone(t *testing.T) {
	t.Parallel()

	occ := domain.ScheduledOccurrence{At: instant, AuthoringTimezone: "Europe/Berlin"}

	_, err := FormatClientOnly(occ, "Nowhere/Special")
	assert.ErrorIs(t, err, ErrUnknownTimezone)

	_, err = FormatDual(domain.ScheduledOccurrence{At: instant, AuthoringTimezone: "Nowhere/Special"}, "UTC")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestParseWallClock_RoundTrip(t *testing.T) {
	t.Parallel()

	zones := []string{"Europe/Berlin", "America/New_York", "Asia/Tokyo", "Australia/Sydney", "UTC"}
	instants := []time.Time{
		instant,
		time.Date(2025, time.March, 30, 0, 59, 0, 0, time.UTC),
		time.Date(2025, time.July, 15, 8, 5, 0, 0, time.UTC),
		time.Date(2025, time.November, 2, 6, 45, 0, 0, time.UTC),
	}

	for _, tz := range zones {
		loc, err := LoadLocation(tz)
		require.NoError(t, err)

		for _, at := range instants {
			occ := domain.ScheduledOccurrence{At: at, AuthoringTimezone: tz}

			rendered, err := FormatClientOnly(occ, tz)
			require.NoError(t, err)

			parsed, err := ParseWallClock(rendered, tz)
			require.NoError(t, err)

			local := at.In(loc)
			assert.Equal(t, local.Hour(), parsed.Hour(), "tz=%s at=%s", tz, at)
			assert.Equal(t, local.Minute(), parsed.Minute(), "tz=%s at=%s", tz, at)
			assert.True(t, at.Equal(parsed), "tz=%s at=%s parsed=%s", tz, at, parsed)
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Monday", WeekdayName(1))
	assert.Equal(t, "Sun", WeekdayShortName(0))
	assert.Equal(t, "Unknown", WeekdayName(9))
	assert.Equal(t, "50 min", FormatDuration(50))
	assert.Equal(t, "1 h 30 min", FormatDuration(90))
	assert.Equal(t, "2 h", FormatDuration(120))
	assert.Equal(t, "Every two weeks", FrequencyLabel(domain.FrequencyBiweekly))
	assert.Equal(t, "18:30-19:20", FormatTimeRange(
		time.Date(2025, 1, 6, 18, 30, 0, 0, time.UTC),
		time.Date(2025, 1, 6, 19, 20, 0, 0, time.UTC),
	))

	s := domain.NewRecurringSchedule(1, "18:30", domain.FrequencyWeekly, "Europe/Berlin")
	assert.Equal(t, "Every week on Monday at 18:30 (Europe/Berlin)", ScheduleSummary(s))
}
