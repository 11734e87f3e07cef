package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"08:00", 480, true},
		{"18:30", 1110, true},
		{"09:30:00", 570, true},
		{"9:", 540, true},
		{":15", 15, true},
		{" 7 : 05 ", 425, true},
		{"0800", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
		{"10:xx", 0, false},
		{"Inf:00", 0, false},
		{"NaN:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := TimeToMinutes(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"to after from", "08:00", "18:00", false},
		{"one minute apart", "08:00", "08:01", false},
		{"equal", "08:00", "08:00", true},
		{"to before from", "18:00", "08:00", true},
		{"malformed from is skipped", "abc", "08:00", false},
		{"malformed to is skipped", "18:00", "8", false},
		{"both malformed", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := ValidateTimeRange(tt.from, tt.to)
			if !tt.wantErr {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, FieldAvailableToTime, fe.Field)
			assert.Equal(t, MsgTimeOrder, fe.Message)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	for i := 0; i <= 6; i++ {
		d, err := ParseWeekday(string(rune('0' + i)))
		require.NoError(t, err)
		assert.Equal(t, time.Weekday(i), d)
	}

	for _, bad := range []string{"7", "-1", "", "mon", "1.5"} {
		_, err := ParseWeekday(bad)
		assert.ErrorIs(t, err, ErrInvalidWeekday, bad)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("08:15")
	require.NoError(t, err)
	assert.Equal(t, 495, m)

	m, err = ParseClock("23:59:00")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	for _, bad := range []string{"24:00", "12:60", "noon", "", "8"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}

	assert.Equal(t, "08:05", FormatClock(485))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"$1,234.50", 123450, nil},
		{"0.00", 0, nil},
		{"150", 15000, nil},
		{" $ 99.9 ", 9990, nil},
		{"0.005", 1, nil},
		{"0.004", 0, nil},
		{"10.125", 1013, nil},
		{"", 0, ErrPriceRequired},
		{"$", 0, ErrPriceRequired},
		{"-1.00", 0, ErrNegativePrice},
		{"abc", 0, ErrInvalidPrice},
		{"1/2", 0, ErrInvalidPrice},
		{"1e3", 100000, nil},
		{"1.5E+2", 15000, nil},
		{"25e-1", 250, nil},
		{"1e999", 0, ErrPriceTooLarge},
		{"1e1000", 0, ErrInvalidPrice},
		{" $ 1 , 000 . 5", 0, ErrInvalidPrice},
		{"1 000", 0, ErrInvalidPrice},
		{"e3", 0, ErrInvalidPrice},
		{"1.2.3", 0, ErrInvalidPrice},
		{"99999999999", 0, ErrPriceTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatPrice(123450))
	assert.Equal(t, "$0.00", FormatPrice(0))
	assert.Equal(t, "$1,000,000.01", FormatPrice(100000001))
}

func TestWindow_Contains(t *testing.T) {
	// Monday to Friday, 08:00-18:00
	w, err := NewWindow(1, 5, "08:00", "18:00")
	require.NoError(t, err)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	assert.True(t, w.Contains(monday.Add(8*time.Hour)))
	assert.True(t, w.Contains(monday.Add(17*time.Hour+59*time.Minute)))
	assert.False(t, w.Contains(monday.Add(18*time.Hour)), "end is exclusive")
	assert.False(t, w.Contains(monday.Add(7*time.Hour+59*time.Minute)))
	assert.False(t, w.Contains(monday.AddDate(0, 0, 5).Add(9*time.Hour)), "saturday")
	assert.False(t, w.Contains(monday.AddDate(0, 0, -1).Add(9*time.Hour)), "sunday")
}

func TestWindow_WrapsOverWeekend(t *testing.T) {
	// Friday to Monday
	w, err := NewWindow(5, 1, "10:00", "12:00")
	require.NoError(t, err)

	for _, d := range []time.Weekday{time.Friday, time.Saturday, time.Sunday, time.Monday} {
		assert.True(t, w.IncludesDay(d), d.String())
	}
	for _, d := range []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday} {
		assert.False(t, w.IncludesDay(d), d.String())
	}
}

func TestNewWindow_Invalid(t *testing.T) {
	_, err := NewWindow(7, 1, "08:00", "09:00")
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = NewWindow(1, 5, "8am", "09:00")
	assert.ErrorIs(t, err, ErrInvalidClock)
}
