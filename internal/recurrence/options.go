package recurrence

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// SameDayPolicy decides what happens when the reference instant already falls on the target weekday
type SameDayPolicy int

const (
	// PolicyPreview lets the first occurrence fall on the reference date itself
	PolicyPreview SameDayPolicy = iota
	// PolicyFirstOccurrence pushes a same-day first occurrence a full week ahead
	PolicyFirstOccurrence
)

// SkipPolicy decides how skip dates and holidays affect the result
type SkipPolicy int

const (
	// SkipNone returns raw occurrences, skip dates are ignored
	SkipNone SkipPolicy = iota
	// SkipRefill drops skipped dates and keeps generating until count results are collected
	SkipRefill
	// SkipShrink drops skipped dates and returns fewer results
	SkipShrink
)

// MonthlyRollover decides where a monthly occurrence lands when the day does not exist in the target month
type MonthlyRollover int

const (
	// RolloverClamp moves the date to the last day of the target month (Jan 31 -> Feb 28)
	RolloverClamp MonthlyRollover = iota
	// RolloverOverflow lets the date spill into the next month (Jan 31 -> Mar 3), like time.AddDate
	RolloverOverflow
)

// GapPolicy decides what happens when the time of day does not exist on a date
// because the clocks jump forward (DST spring-forward gap)
type GapPolicy int

const (
	// GapShiftForward reads the missing wall-clock time with the offset in effect before the gap,
	// so 02:30 on a 02:00 -> 03:00 jump becomes 03:30 (RFC 5545 behaviour)
	GapShiftForward GapPolicy = iota
	// GapReject fails generation with an InvalidScheduleError on field timeOfDay
	GapReject
)

// StepFunc returns the calendar date of occurrence index for the custom frequency.
// base is the first occurrence date (midnight in the authoring timezone).
type StepFunc func(base time.Time, index int) time.Time

// HolidayCalendar reports public holidays; date is midnight in the authoring timezone
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// StaticHolidays is a fixed set of YYYY-MM-DD dates
type StaticHolidays map[string]struct{}

// NewStaticHolidays builds a calendar from YYYY-MM-DD strings
func NewStaticHolidays(dates ...string) StaticHolidays {
	h := make(StaticHolidays, len(dates))
	for _, d := range dates {
		h[d] = struct{}{}
	}
	return h
}

func (h StaticHolidays) IsHoliday(date time.Time) bool {
	_, ok := h[date.Format(domain.DateFormat)]
	return ok
}

// Options tunes occurrence generation
type Options struct {
	SameDay    SameDayPolicy
	Skip       SkipPolicy
	Rollover   MonthlyRollover
	Gap        GapPolicy
	CustomStep StepFunc
	Holidays   HolidayCalendar

	// ViewerTimezone is attached to every produced occurrence
	ViewerTimezone string

	// MaxScan bounds how many candidate indices SkipRefill may inspect.
	// Zero means count + defaultRefillSlack.
	MaxScan int
}

const defaultRefillSlack = 104
