package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr error
	}{
		{name: "plain", input: "09:30", want: "09:30"},
		{name: "postgres time with seconds", input: "18:45:00", want: "18:45"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "last minute", input: "23:59", want: "23:59"},
		{name: "surrounding spaces", input: " 07:05 ", want: "07:05"},
		{name: "hour 24", input: "24:00", wantErr: ErrTimeOutOfRange},
		{name: "minute 60", input: "10:60", wantErr: ErrTimeOutOfRange},
		{name: "single digit hour", input: "9:00", wantErr: ErrInvalidTimeFormat},
		{name: "letters", input: "ab:cd", wantErr: ErrInvalidTimeFormat},
		{name: "empty", input: "", wantErr: ErrInvalidTimeFormat},
		{name: "no separator", input: "0930", wantErr: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	t.Parallel()

	start := TimeString("22:30")

	minutes, err := start.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 22*60+30, minutes)

	end, err := start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	_, err = start.AddMinutes(91)
	assert.ErrorIs(t, err, ErrDayOverflow)

	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_On(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	got, err := TimeString("10:15").On(2025, time.July, 1, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 1, 8, 15, 0, 0, time.UTC), got.UTC())

	_, err = TimeString("bad").On(2025, time.July, 1, loc)
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	t.Parallel()

	var ts TimeString

	require.NoError(t, ts.Scan("14:00:00"))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan([]byte("08:05")))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 19, 20, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("19:20"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))

	value, err := TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}
