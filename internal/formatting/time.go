package formatting

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// FormatDate formats a calendar date, e.g. "06 Jan 2025"
func FormatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatDateWithWeekday formats a date with its weekday, e.g. "Mon, 06 Jan 2025"
func FormatDateWithWeekday(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006")
}

// FormatTime formats a wall-clock time, e.g. "18:30"
func FormatTime(t time.Time) string {
	return t.Format(domain.TimeFormat)
}

// FormatTimeRange formats a start-end pair, e.g. "18:30-19:20"
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
}

// FormatDuration formats a duration given in minutes
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d h", hours)
	}
	return fmt.Sprintf("%d h %d min", hours, mins)
}

var weekdayNames = []string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// WeekdayName returns the English weekday name for the 0 = Sunday index
func WeekdayName(weekday int) string {
	if weekday >= 0 && weekday < len(weekdayNames) {
		return weekdayNames[weekday]
	}
	return "Unknown"
}

// WeekdayShortName returns a three letter weekday name
func WeekdayShortName(weekday int) string {
	if weekday >= 0 && weekday < len(weekdayNames) {
		return weekdayNames[weekday][:3]
	}
	return "?"
}

// FrequencyLabel returns the label shown next to a plan or subscription
func FrequencyLabel(f domain.Frequency) string {
	switch f {
	case domain.FrequencyWeekly:
		return "Every week"
	case domain.FrequencyBiweekly:
		return "Every two weeks"
	case domain.FrequencyMonthly:
		return "Every month"
	case domain.FrequencyCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// ScheduleSummary describes a recurring slot, e.g. "Every week on Monday at 18:30 (Europe/Berlin)"
func ScheduleSummary(s domain.RecurringSchedule) string {
	return fmt.Sprintf("%s on %s at %s (%s)",
		FrequencyLabel(s.Frequency()), WeekdayName(s.Weekday()), s.TimeOfDay().String(), s.Timezone())
}
