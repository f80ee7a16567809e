package preview_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

const maxIntervalWeeks = 52

// buildSchedule проверяет запрос и собирает расписание.
// Ошибки полей возвращаются как *validation.FieldsError
func buildSchedule(req *Request) (domain.RecurringSchedule, error) {
	result := validation.NewResult()

	weekday := -1
	if req.Weekday == nil {
		result.Add("weekday", "is required")
	} else {
		weekday = *req.Weekday
	}

	schedule := domain.NewRecurringSchedule(weekday, types.TimeString(req.TimeOfDay), domain.Frequency(req.Frequency), req.Timezone).
		WithSkipDates(req.SkipDates...).
		WithSkipHolidays(req.SkipHolidays)

	for field, messages := range validation.ValidateSchedule(schedule) {
		if field == "weekday" && req.Weekday == nil {
			continue
		}
		for _, m := range messages {
			result.Add(field, m)
		}
	}

	result.Merge(validation.ValidateField(req.StartsOn, "startsOn", validation.Date))
	result.Merge(validation.ValidateField(req.EndsOn, "endsOn", validation.Date))
	result.Merge(validation.ValidateField(req.ViewerTimezone, "viewerTimezone", validation.Timezone))

	if req.Count < 0 || req.Count > domain.MaxPreviewCount {
		result.Add("count", fmt.Sprintf("must be between 1 and %d", domain.MaxPreviewCount))
	}
	if domain.Frequency(req.Frequency) == domain.FrequencyCustom && (req.IntervalWeeks < 1 || req.IntervalWeeks > maxIntervalWeeks) {
		result.Add("intervalWeeks", fmt.Sprintf("must be between 1 and %d for a custom frequency", maxIntervalWeeks))
	}

	if err := result.Err(); err != nil {
		return schedule, err
	}

	// даты границ интерпретируются в часовом поясе расписания
	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return schedule, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	startsOn, err := parseDate(req.StartsOn, loc)
	if err != nil {
		return schedule, err
	}
	endsOn, err := parseDate(req.EndsOn, loc)
	if err != nil {
		return schedule, err
	}
	schedule = schedule.WithBounds(startsOn, endsOn)

	bounds := validation.ValidateSchedule(schedule)
	if !bounds.Valid() {
		return schedule, bounds.Err()
	}
	return schedule, nil
}

func parseDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &t, nil
}
