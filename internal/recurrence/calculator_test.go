package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func schedule(weekday int, tod string, freq domain.Frequency, tz string) domain.RecurringSchedule {
	return domain.NewRecurringSchedule(weekday, types.TimeString(tod), freq, tz)
}

func TestNextOccurrences_CountAndOrdering(t *testing.T) {
	t.Parallel()

	// 2025-01-08 is a Wednesday
	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)

	for _, freq := range []domain.Frequency{domain.FrequencyWeekly, domain.FrequencyBiweekly, domain.FrequencyMonthly} {
		freq := freq
		t.Run(string(freq), func(t *testing.T) {
			t.Parallel()

			got, err := NextOccurrences(schedule(int(time.Monday), "10:00", freq, "Europe/Berlin"), ref, 8, Options{})
			require.NoError(t, err)
			require.Len(t, got, 8)

			for i := 1; i < len(got); i++ {
				assert.True(t, got[i].At.After(got[i-1].At), "occurrence %d must be after %d", i, i-1)
			}
		})
	}
}

func TestNextOccurrences_StepSizes(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)

	weekly, err := NextOccurrences(schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "UTC"), ref, 3, Options{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 13, 10, 0, 0, 0, time.UTC), weekly[0].At)
	assert.Equal(t, time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC), weekly[1].At)
	assert.Equal(t, time.Date(2025, time.January, 27, 10, 0, 0, 0, time.UTC), weekly[2].At)

	biweekly, err := NextOccurrences(schedule(int(time.Monday), "10:00", domain.FrequencyBiweekly, "UTC"), ref, 3, Options{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 13, 10, 0, 0, 0, time.UTC), biweekly[0].At)
	assert.Equal(t, time.Date(2025, time.January, 27, 10, 0, 0, 0, time.UTC), biweekly[1].At)
	assert.Equal(t, time.Date(2025, time.February, 10, 10, 0, 0, 0, time.UTC), biweekly[2].At)
}

func TestNextOccurrences_SameDayPolicies(t *testing.T) {
	t.Parallel()

	// 2025-01-06 is a Monday
	ref := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	s := schedule(int(time.Monday), "18:30", domain.FrequencyWeekly, "UTC")

	preview, err := NextOccurrences(s, ref, 2, Options{SameDay: PolicyPreview})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 6, 18, 30, 0, 0, time.UTC), preview[0].At)
	assert.Equal(t, time.Date(2025, time.January, 13, 18, 30, 0, 0, time.UTC), preview[1].At)

	first, err := FirstOccurrence(s, ref, Options{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 13, 18, 30, 0, 0, time.UTC), first.At)
	assert.Equal(t, 7*24*time.Hour, first.At.Sub(preview[0].At))
}

func TestNextOccurrences_WeekdayEvaluatedInAuthoringTimezone(t *testing.T) {
	t.Parallel()

	// Sunday 23:30 UTC is already Monday in Tokyo
	ref := time.Date(2025, time.January, 5, 23, 30, 0, 0, time.UTC)
	s := schedule(int(time.Monday), "20:00", domain.FrequencyWeekly, "Asia/Tokyo")

	got, err := NextOccurrences(s, ref, 1, Options{SameDay: PolicyPreview})
	require.NoError(t, err)

	local := got[0].At.In(mustLoad(t, "Asia/Tokyo"))
	assert.Equal(t, 6, local.Day())
	assert.Equal(t, time.Monday, local.Weekday())
	assert.Equal(t, 20, local.Hour())
}

func TestNextOccurrences_MonthlyUsesCalendarMonths(t *testing.T) {
	t.Parallel()

	// 2025-01-31 is a Friday
	ref := time.Date(2025, time.January, 31, 6, 0, 0, 0, time.UTC)
	s := schedule(int(time.Friday), "09:00", domain.FrequencyMonthly, "UTC")

	t.Run("clamp keeps one occurrence per month", func(t *testing.T) {
		t.Parallel()

		got, err := NextOccurrences(s, ref, 5, Options{})
		require.NoError(t, err)
		require.Len(t, got, 5)

		expected := []time.Time{
			time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 30, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.May, 31, 9, 0, 0, 0, time.UTC),
		}
		for i, want := range expected {
			assert.Equal(t, want, got[i].At)
		}
	})

	t.Run("overflow follows time.AddDate", func(t *testing.T) {
		t.Parallel()

		got, err := NextOccurrences(s, ref, 2, Options{Rollover: RolloverOverflow})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC), got[1].At)
	})
}

func TestNextOccurrences_WallClockAcrossDST(t *testing.T) {
	t.Parallel()

	berlin := mustLoad(t, "Europe/Berlin")
	// Mondays around the 2025-03-30 switch to CEST
	ref := time.Date(2025, time.March, 17, 0, 0, 0, 0, berlin)
	s := schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "Europe/Berlin")

	got, err := NextOccurrences(s, ref, 3, Options{})
	require.NoError(t, err)

	for _, occ := range got {
		local := occ.At.In(berlin)
		assert.Equal(t, 10, local.Hour())
		assert.Equal(t, 0, local.Minute())
		assert.Equal(t, time.UTC, occ.At.Location())
	}
	assert.Equal(t, 9, got[1].At.Hour())
	assert.Equal(t, 8, got[2].At.Hour())
}

func TestNextOccurrences_TimeInsideDSTGap(t *testing.T) {
	t.Parallel()

	newYork := mustLoad(t, "America/New_York")
	// 2025-03-09 is a Sunday, clocks jump from 02:00 EST to 03:00 EDT
	ref := time.Date(2025, time.March, 8, 12, 0, 0, 0, time.UTC)
	s := schedule(int(time.Sunday), "02:30", domain.FrequencyWeekly, "America/New_York")

	t.Run("shift forward by default", func(t *testing.T) {
		t.Parallel()

		got, err := NextOccurrences(s, ref, 2, Options{})
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, time.Date(2025, time.March, 9, 7, 30, 0, 0, time.UTC), got[0].At)
		local := got[0].At.In(newYork)
		assert.Equal(t, 3, local.Hour())
		assert.Equal(t, 30, local.Minute())

		// the following week the wall-clock time exists again
		next := got[1].At.In(newYork)
		assert.Equal(t, 2, next.Hour())
		assert.Equal(t, 30, next.Minute())
	})

	t.Run("never earlier than the chosen time", func(t *testing.T) {
		t.Parallel()

		got, err := NextOccurrences(s, ref, 1, Options{})
		require.NoError(t, err)
		chosen := time.Date(2025, time.March, 9, 2, 30, 0, 0, time.UTC).Add(5 * time.Hour)
		assert.False(t, got[0].At.Before(chosen))
	})

	t.Run("reject", func(t *testing.T) {
		t.Parallel()

		got, err := NextOccurrences(s, ref, 2, Options{Gap: GapReject})
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		assert.ErrorIs(t, err, ErrNonexistentLocalTime)

		var invalidErr *InvalidScheduleError
		require.True(t, errors.As(err, &invalidErr))
		assert.Equal(t, "timeOfDay", invalidErr.Field)
		assert.Equal(t, "02:30", invalidErr.Value)
	})

	t.Run("existing times are untouched", func(t *testing.T) {
		t.Parallel()

		got, err := NextOccurrences(schedule(int(time.Sunday), "03:30", domain.FrequencyWeekly, "America/New_York"), ref, 1, Options{Gap: GapReject})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 9, 7, 30, 0, 0, time.UTC), got[0].At)
	})
}

func TestNextOccurrences_ZeroCount(t *testing.T) {
	t.Parallel()

	got, err := NextOccurrences(schedule(1, "10:00", domain.FrequencyWeekly, "UTC"), time.Now(), 0, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestNextOccurrences_InvalidSchedule(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule domain.RecurringSchedule
		count    int
		field    string
	}{
		{name: "hour out of range", schedule: schedule(1, "24:00", domain.FrequencyWeekly, "UTC"), count: 1, field: "timeOfDay"},
		{name: "minute out of range", schedule: schedule(1, "10:60", domain.FrequencyWeekly, "UTC"), count: 1, field: "timeOfDay"},
		{name: "not a time", schedule: schedule(1, "ten", domain.FrequencyWeekly, "UTC"), count: 1, field: "timeOfDay"},
		{name: "single digit hour", schedule: schedule(1, "9:00", domain.FrequencyWeekly, "UTC"), count: 1, field: "timeOfDay"},
		{name: "empty time", schedule: schedule(1, "", domain.FrequencyWeekly, "UTC"), count: 1, field: "timeOfDay"},
		{name: "weekday too large", schedule: schedule(7, "10:00", domain.FrequencyWeekly, "UTC"), count: 1, field: "weekday"},
		{name: "negative weekday", schedule: schedule(-1, "10:00", domain.FrequencyWeekly, "UTC"), count: 1, field: "weekday"},
		{name: "unknown frequency", schedule: schedule(1, "10:00", domain.Frequency("daily"), "UTC"), count: 1, field: "frequency"},
		{name: "unknown timezone", schedule: schedule(1, "10:00", domain.FrequencyWeekly, "Mars/Olympus"), count: 1, field: "timezone"},
		{name: "missing timezone", schedule: schedule(1, "10:00", domain.FrequencyWeekly, ""), count: 1, field: "timezone"},
		{name: "server local timezone", schedule: schedule(1, "10:00", domain.FrequencyWeekly, "Local"), count: 1, field: "timezone"},
		{name: "negative count", schedule: schedule(1, "10:00", domain.FrequencyWeekly, "UTC"), count: -1, field: "count"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NextOccurrences(tt.schedule, ref, tt.count, Options{})
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrInvalidSchedule)

			var invalidErr *InvalidScheduleError
			require.True(t, errors.As(err, &invalidErr))
			assert.Equal(t, tt.field, invalidErr.Field)
		})
	}
}

func TestNextOccurrences_CustomFrequency(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	s := schedule(int(time.Monday), "10:00", domain.FrequencyCustom, "UTC")

	t.Run("requires a step function", func(t *testing.T) {
		t.Parallel()

		_, err := NextOccurrences(s, ref, 3, Options{})
		assert.ErrorIs(t, err, ErrCustomStepRequired)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("uses the caller supplied step", func(t *testing.T) {
		t.Parallel()

		everyThreeWeeks := func(base time.Time, i int) time.Time { return base.AddDate(0, 0, 21*i) }
		got, err := NextOccurrences(s, ref, 3, Options{CustomStep: everyThreeWeeks})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.January, 13, 10, 0, 0, 0, time.UTC), got[0].At)
		assert.Equal(t, time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC), got[1].At)
		assert.Equal(t, time.Date(2025, time.February, 24, 10, 0, 0, 0, time.UTC), got[2].At)
	})

	t.Run("rejects a step that does not advance", func(t *testing.T) {
		t.Parallel()

		stuck := func(base time.Time, _ int) time.Time { return base }
		_, err := NextOccurrences(s, ref, 3, Options{CustomStep: stuck})
		assert.ErrorIs(t, err, ErrStepNotAdvancing)
	})
}

func TestNextOccurrences_SkipPolicies(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	s := schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "UTC").
		WithSkipDates("2025-01-20")

	raw, err := NextOccurrences(s, ref, 3, Options{Skip: SkipNone})
	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Equal(t, 20, raw[1].At.Day())

	refill, err := NextOccurrences(s, ref, 3, Options{Skip: SkipRefill})
	require.NoError(t, err)
	require.Len(t, refill, 3)
	assert.Equal(t, 13, refill[0].At.Day())
	assert.Equal(t, 27, refill[1].At.Day())
	assert.Equal(t, time.February, refill[2].At.Month())
	assert.Equal(t, 3, refill[2].At.Day())

	shrink, err := NextOccurrences(s, ref, 3, Options{Skip: SkipShrink})
	require.NoError(t, err)
	require.Len(t, shrink, 2)
	assert.Equal(t, 13, shrink[0].At.Day())
	assert.Equal(t, 27, shrink[1].At.Day())
}

func TestNextOccurrences_Holidays(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	holidays := NewStaticHolidays("2025-01-13")

	withFlag := schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "UTC").WithSkipHolidays(true)
	got, err := NextOccurrences(withFlag, ref, 2, Options{Skip: SkipRefill, Holidays: holidays})
	require.NoError(t, err)
	assert.Equal(t, 20, got[0].At.Day())
	assert.Equal(t, 27, got[1].At.Day())

	withoutFlag := withFlag.WithSkipHolidays(false)
	got, err = NextOccurrences(withoutFlag, ref, 2, Options{Skip: SkipRefill, Holidays: holidays})
	require.NoError(t, err)
	assert.Equal(t, 13, got[0].At.Day())
}

func TestNextOccurrences_Bounds(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	startsOn := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	endsOn := time.Date(2025, time.February, 17, 0, 0, 0, 0, time.UTC)

	s := schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "UTC").WithBounds(&startsOn, &endsOn)

	got, err := NextOccurrences(s, ref, 10, Options{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC), got[0].At)
	assert.Equal(t, time.Date(2025, time.February, 17, 10, 0, 0, 0, time.UTC), got[2].At)
}

func TestNextOccurrences_AttachesTimezones(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	s := schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "Europe/Berlin")

	got, err := NextOccurrences(s, ref, 2, Options{ViewerTimezone: "America/New_York"})
	require.NoError(t, err)
	for _, occ := range got {
		assert.Equal(t, "Europe/Berlin", occ.AuthoringTimezone)
		assert.Equal(t, "America/New_York", occ.ViewerTimezone)
	}
}

func TestRecurringSchedule_IsImmutable(t *testing.T) {
	t.Parallel()

	original := schedule(int(time.Monday), "10:00", domain.FrequencyWeekly, "UTC")
	edited := original.WithSkipDates("2025-01-20").WithWeekday(int(time.Tuesday))

	assert.Empty(t, original.SkipDates())
	assert.Equal(t, int(time.Monday), original.Weekday())
	assert.Equal(t, []string{"2025-01-20"}, edited.SkipDates())
	assert.Equal(t, int(time.Tuesday), edited.Weekday())
}
