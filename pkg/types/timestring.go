package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда часы или минуты вне допустимого диапазона
	ErrTimeOutOfRange = errors.New("time out of range, expected 00:00-23:59")

	// ErrDayOverflow возвращается, когда прибавление минут выходит за пределы суток
	ErrDayOverflow = errors.New("time overflows the day")
)

const minutesPerDay = 24 * 60

// TimeString время суток в формате "HH:MM" (24-часовой формат)
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString парсит и валидирует строку "HH:MM"
// Допускается также "HH:MM:SS" (формат TIME из Postgres), секунды отбрасываются
func NewTimeStringFromString(s string) (TimeString, error) {
	h, m, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return TimeString(fmt.Sprintf("%02d:%02d", h, m)), nil
}

// NewTimeStringFromParts создает TimeString из часов и минут
func NewTimeStringFromParts(hour, minute int) (TimeString, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", ErrTimeOutOfRange
	}
	return TimeString(fmt.Sprintf("%02d:%02d", hour, minute)), nil
}

func parseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrTimeOutOfRange, s)
	}
	return h, m, nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero проверяет, что время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет корректность формата
func (t TimeString) Validate() error {
	_, _, err := parseClock(string(t))
	return err
}

// Hour возвращает часы (0 для некорректного значения)
func (t TimeString) Hour() int {
	h, _, _ := parseClock(string(t))
	return h
}

// Minute возвращает минуты (0 для некорректного значения)
func (t TimeString) Minute() int {
	_, m, _ := parseClock(string(t))
	return m
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	h, m, err := parseClock(string(t))
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// AddMinutes прибавляет минуты, результат должен остаться в пределах суток
// Ровно 24:00 допускается как конец дня
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.Minutes()
	if err != nil {
		return "", err
	}
	total += minutes
	if total < 0 || total > minutesPerDay {
		return "", ErrDayOverflow
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore сравнивает время (некорректные значения считаются полночью)
func (t TimeString) IsBefore(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a < b
}

// IsAfter сравнивает время (некорректные значения считаются полночью)
func (t TimeString) IsAfter(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a > b
}

// On накладывает время суток на календарную дату в указанной таймзоне
func (t TimeString) On(year int, month time.Month, day int, loc *time.Location) (time.Time, error) {
	h, m, err := parseClock(string(t))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, day, h, m, 0, 0, loc), nil
}

// Scan реализует sql.Scanner для колонок TIME
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types.TimeString: unsupported scan type %T", src)
	}

	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
