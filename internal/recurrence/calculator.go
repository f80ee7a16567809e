package recurrence

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// NextOccurrences produces up to count future occurrences of the schedule after ref.
//
// Generation rules:
//   - the first date is the next schedule weekday on or after ref (see SameDayPolicy),
//     evaluated in the authoring timezone;
//   - index i is stepped from that first date: weekly +7i days, biweekly +14i days,
//     monthly +i calendar months, custom via Options.CustomStep;
//   - the time of day is applied in the authoring timezone and the result is returned in UTC;
//     a time of day inside a DST gap is resolved by Options.Gap;
//   - StartsOn moves the reference forward, EndsOn cuts the sequence short;
//   - skip dates and holidays are handled according to Options.Skip.
func NextOccurrences(schedule domain.RecurringSchedule, ref time.Time, count int, opts Options) ([]domain.ScheduledOccurrence, error) {
	if count < 0 {
		return nil, invalid("count", "", "must not be negative")
	}

	plan, err := prepare(schedule, opts)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return []domain.ScheduledOccurrence{}, nil
	}

	anchor := ref
	if startsOn, ok := schedule.StartsOn(); ok && startsOn.After(anchor) {
		anchor = startsOn
	}
	base := firstDate(anchor.In(plan.loc), schedule.Weekday(), opts.SameDay)

	maxScan := count
	if opts.Skip == SkipRefill {
		maxScan = opts.MaxScan
		if maxScan <= 0 {
			maxScan = count + defaultRefillSlack
		}
	}

	lastDate, hasEnd := scheduleEnd(schedule, plan.loc)

	result := make([]domain.ScheduledOccurrence, 0, count)
	var previous time.Time

	for i := 0; i < maxScan && len(result) < count; i++ {
		date := plan.step(base, i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, plan.loc)

		if i > 0 && !date.After(previous) {
			return nil, &InvalidScheduleError{
				Field:  "frequency",
				Value:  string(schedule.Frequency()),
				Reason: "step function must advance the date",
				Err:    ErrStepNotAdvancing,
			}
		}
		previous = date

		if hasEnd && date.After(lastDate) {
			break
		}

		if opts.Skip != SkipNone && isSkipped(schedule, date, opts.Holidays) {
			continue
		}

		at, err := wallClock(date, plan, opts.Gap)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.ScheduledOccurrence{
			At:                at.UTC(),
			AuthoringTimezone: schedule.Timezone(),
			ViewerTimezone:    opts.ViewerTimezone,
		})
	}

	return result, nil
}

// FirstOccurrence returns the first occurrence strictly after the reference date.
// A reference that already falls on the schedule weekday yields the date one week later.
func FirstOccurrence(schedule domain.RecurringSchedule, ref time.Time, opts Options) (domain.ScheduledOccurrence, error) {
	opts.SameDay = PolicyFirstOccurrence
	occurrences, err := NextOccurrences(schedule, ref, 1, opts)
	if err != nil {
		return domain.ScheduledOccurrence{}, err
	}
	if len(occurrences) == 0 {
		return domain.ScheduledOccurrence{}, invalid("endsOn", "", "no occurrence inside the schedule bounds")
	}
	return occurrences[0], nil
}

type generationPlan struct {
	loc    *time.Location
	hour   int
	minute int
	step   func(base time.Time, i int) time.Time
}

// prepare validates the schedule and resolves everything generation needs
func prepare(schedule domain.RecurringSchedule, opts Options) (*generationPlan, error) {
	if schedule.Weekday() < 0 || schedule.Weekday() > 6 {
		return nil, invalid("weekday", strconv.Itoa(schedule.Weekday()), "must be between 0 (Sunday) and 6 (Saturday)")
	}

	tod, err := types.NewTimeStringFromString(schedule.TimeOfDay().String())
	if err != nil {
		return nil, &InvalidScheduleError{
			Field:  "timeOfDay",
			Value:  schedule.TimeOfDay().String(),
			Reason: "must be HH:MM between 00:00 and 23:59",
			Err:    err,
		}
	}

	if schedule.Timezone() == "" {
		return nil, invalid("timezone", "", "is required")
	}
	// "Local" is the server zone, not an authoring timezone
	if schedule.Timezone() == "Local" {
		return nil, invalid("timezone", schedule.Timezone(), "must be an IANA timezone")
	}
	loc, err := time.LoadLocation(schedule.Timezone())
	if err != nil {
		return nil, &InvalidScheduleError{
			Field:  "timezone",
			Value:  schedule.Timezone(),
			Reason: "unknown IANA timezone",
			Err:    err,
		}
	}

	plan := &generationPlan{
		loc:    loc,
		hour:   tod.Hour(),
		minute: tod.Minute(),
	}

	switch schedule.Frequency() {
	case domain.FrequencyWeekly:
		plan.step = func(base time.Time, i int) time.Time { return base.AddDate(0, 0, 7*i) }
	case domain.FrequencyBiweekly:
		plan.step = func(base time.Time, i int) time.Time { return base.AddDate(0, 0, 14*i) }
	case domain.FrequencyMonthly:
		rollover := opts.Rollover
		plan.step = func(base time.Time, i int) time.Time { return addMonths(base, i, rollover) }
	case domain.FrequencyCustom:
		if opts.CustomStep == nil {
			return nil, &InvalidScheduleError{
				Field:  "frequency",
				Value:  string(schedule.Frequency()),
				Reason: "custom frequency requires a step function",
				Err:    ErrCustomStepRequired,
			}
		}
		plan.step = opts.CustomStep
	default:
		return nil, invalid("frequency", string(schedule.Frequency()), "must be weekly, biweekly, monthly or custom")
	}

	return plan, nil
}

// wallClock places the time of day on date in the authoring timezone.
// time.Date normalises a missing local time with an unspecified offset, so a gap is detected and resolved explicitly.
func wallClock(date time.Time, plan *generationPlan, policy GapPolicy) (time.Time, error) {
	at := time.Date(date.Year(), date.Month(), date.Day(), plan.hour, plan.minute, 0, 0, plan.loc)
	if at.Hour() == plan.hour && at.Minute() == plan.minute {
		return at, nil
	}

	if policy == GapReject {
		return time.Time{}, &InvalidScheduleError{
			Field:  "timeOfDay",
			Value:  fmt.Sprintf("%02d:%02d", plan.hour, plan.minute),
			Reason: "does not exist on " + date.Format(domain.DateFormat) + " in " + plan.loc.String(),
			Err:    ErrNonexistentLocalTime,
		}
	}

	// offset before the gap; gaps are far shorter than this window
	_, before := at.Add(-gapLookback).Zone()
	wall := time.Date(date.Year(), date.Month(), date.Day(), plan.hour, plan.minute, 0, 0, time.UTC)
	return wall.Add(-time.Duration(before) * time.Second).In(plan.loc), nil
}

const gapLookback = 3 * time.Hour

// firstDate returns midnight of the first schedule weekday relative to ref (already in the authoring zone)
func firstDate(ref time.Time, weekday int, policy SameDayPolicy) time.Time {
	daysUntil := (weekday - int(ref.Weekday()) + 7) % 7
	if daysUntil == 0 && policy == PolicyFirstOccurrence {
		daysUntil = 7
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day()+daysUntil, 0, 0, 0, 0, ref.Location())
}

// addMonths adds calendar months to a date; every index is computed from base so a clamp never drifts
func addMonths(base time.Time, months int, rollover MonthlyRollover) time.Time {
	if rollover == RolloverOverflow {
		return base.AddDate(0, months, 0)
	}

	firstOfTarget := time.Date(base.Year(), base.Month()+time.Month(months), 1, 0, 0, 0, 0, base.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := base.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, base.Location())
}

func scheduleEnd(schedule domain.RecurringSchedule, loc *time.Location) (time.Time, bool) {
	endsOn, ok := schedule.EndsOn()
	if !ok {
		return time.Time{}, false
	}
	local := endsOn.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), true
}

func isSkipped(schedule domain.RecurringSchedule, date time.Time, holidays HolidayCalendar) bool {
	if schedule.IsSkipDate(date.Format(domain.DateFormat)) {
		return true
	}
	return schedule.SkipHolidays() && holidays != nil && holidays.IsHoliday(date)
}
