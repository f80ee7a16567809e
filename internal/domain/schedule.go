package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// Frequency represents how often a recurring session repeats
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	// FrequencyCustom has no built-in stepping rule; the caller supplies one
	FrequencyCustom Frequency = "custom"
)

// Frequencies lists all known frequencies in display order
var Frequencies = []Frequency{
	FrequencyWeekly,
	FrequencyBiweekly,
	FrequencyMonthly,
	FrequencyCustom,
}

// IsValid returns true if the frequency is one of the known values
func (f Frequency) IsValid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// RecurringSchedule is an immutable description of when sessions repeat.
// Weekday uses the 0 = Sunday ... 6 = Saturday convention of time.Weekday.
// TimeOfDay is a wall-clock time in Timezone (the authoring timezone).
type RecurringSchedule struct {
	weekday      int
	timeOfDay    types.TimeString
	frequency    Frequency
	timezone     string
	startsOn     *time.Time
	endsOn       *time.Time
	skipDates    map[string]struct{}
	skipHolidays bool
}

// NewRecurringSchedule builds a schedule value. No validation happens here;
// the occurrence calculator and the validator report malformed values.
func NewRecurringSchedule(weekday int, timeOfDay types.TimeString, frequency Frequency, timezone string) RecurringSchedule {
	return RecurringSchedule{
		weekday:   weekday,
		timeOfDay: timeOfDay,
		frequency: frequency,
		timezone:  timezone,
		skipDates: map[string]struct{}{},
	}
}

func (s RecurringSchedule) Weekday() int                { return s.weekday }
func (s RecurringSchedule) TimeOfDay() types.TimeString { return s.timeOfDay }
func (s RecurringSchedule) Frequency() Frequency        { return s.frequency }
func (s RecurringSchedule) Timezone() string            { return s.timezone }
func (s RecurringSchedule) SkipHolidays() bool          { return s.skipHolidays }

// StartsOn returns the optional lower bound
func (s RecurringSchedule) StartsOn() (time.Time, bool) {
	if s.startsOn == nil {
		return time.Time{}, false
	}
	return *s.startsOn, true
}

// EndsOn returns the optional upper bound
func (s RecurringSchedule) EndsOn() (time.Time, bool) {
	if s.endsOn == nil {
		return time.Time{}, false
	}
	return *s.endsOn, true
}

// SkipDates returns the skip dates (YYYY-MM-DD) in ascending order
func (s RecurringSchedule) SkipDates() []string {
	dates := make([]string, 0, len(s.skipDates))
	for d := range s.skipDates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// IsSkipDate reports whether the calendar date (YYYY-MM-DD) is explicitly skipped
func (s RecurringSchedule) IsSkipDate(date string) bool {
	_, ok := s.skipDates[date]
	return ok
}

func (s RecurringSchedule) clone() RecurringSchedule {
	c := s
	c.skipDates = make(map[string]struct{}, len(s.skipDates))
	for d := range s.skipDates {
		c.skipDates[d] = struct{}{}
	}
	if s.startsOn != nil {
		v := *s.startsOn
		c.startsOn = &v
	}
	if s.endsOn != nil {
		v := *s.endsOn
		c.endsOn = &v
	}
	return c
}

func (s RecurringSchedule) WithWeekday(weekday int) RecurringSchedule {
	c := s.clone()
	c.weekday = weekday
	return c
}

func (s RecurringSchedule) WithTimeOfDay(t types.TimeString) RecurringSchedule {
	c := s.clone()
	c.timeOfDay = t
	return c
}

func (s RecurringSchedule) WithFrequency(f Frequency) RecurringSchedule {
	c := s.clone()
	c.frequency = f
	return c
}

func (s RecurringSchedule) WithTimezone(tz string) RecurringSchedule {
	c := s.clone()
	c.timezone = tz
	return c
}

// WithBounds returns a copy with the given optional start and end bounds
func (s RecurringSchedule) WithBounds(startsOn, endsOn *time.Time) RecurringSchedule {
	c := s.clone()
	c.startsOn = nil
	c.endsOn = nil
	if startsOn != nil {
		v := *startsOn
		c.startsOn = &v
	}
	if endsOn != nil {
		v := *endsOn
		c.endsOn = &v
	}
	return c
}

// WithSkipDates returns a copy with the dates (YYYY-MM-DD) added to the skip set
func (s RecurringSchedule) WithSkipDates(dates ...string) RecurringSchedule {
	c := s.clone()
	for _, d := range dates {
		c.skipDates[d] = struct{}{}
	}
	return c
}

func (s RecurringSchedule) WithSkipHolidays(skip bool) RecurringSchedule {
	c := s.clone()
	c.skipHolidays = skip
	return c
}
