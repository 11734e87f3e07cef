// Package availability validates doctor availability windows and appointment
// prices, and answers whether a moment falls inside a doctor's weekly window.
package availability

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	FieldAvailableToTime = "availableToTime"
	MsgTimeOrder         = "Available to time must be after available from time"
)

var (
	ErrPriceRequired  = errors.New("appointment price is required")
	ErrInvalidPrice   = errors.New("appointment price is not a number")
	ErrNegativePrice  = errors.New("appointment price must not be negative")
	ErrPriceTooLarge  = errors.New("appointment price is too large")
	ErrInvalidWeekday = errors.New("weekday must be between 0 and 6")
	ErrInvalidClock   = errors.New("time must be HH:MM")
)

// maxPriceInCents matches the INTEGER column that stores prices.
const maxPriceInCents = math.MaxInt32

// FieldError is a validation failure attached to a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// TimeToMinutes converts "H:M" to minutes since midnight. Only the first two
// colon-separated parts are read; an empty part counts as zero. It reports
// false when there are fewer than two parts or either is not a finite number.
func TimeToMinutes(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return 0, false
	}

	hours, ok := toFinite(parts[0])
	if !ok {
		return 0, false
	}
	minutes, ok := toFinite(parts[1])
	if !ok {
		return 0, false
	}
	return hours*60 + minutes, true
}

func toFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ValidateTimeRange requires to to be strictly after from. When either side
// cannot be read the ordering cannot be judged and no error is reported.
func ValidateTimeRange(from, to string) *FieldError {
	fromMinutes, ok := TimeToMinutes(from)
	if !ok {
		return nil
	}
	toMinutes, ok := TimeToMinutes(to)
	if !ok {
		return nil
	}
	if toMinutes <= fromMinutes {
		return &FieldError{Field: FieldAvailableToTime, Message: MsgTimeOrder}
	}
	return nil
}

// ParseWeekday reads "0" (Sunday) through "6" (Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return time.Weekday(n), nil
}

// ParseClock reads a strict wall-clock time ("HH:MM" or "HH:MM:SS") and
// returns minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParsePrice converts a currency-formatted amount such as "$1,234.50" into
// integer cents. Dollar signs and thousands separators are dropped and
// surrounding whitespace is ignored; what remains must be a plain decimal,
// optionally with an exponent as JSON numbers may carry ("1e3"). The decimal
// is parsed exactly and rounded half away from zero to the nearest cent.
func ParsePrice(input string) (int64, error) {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '$' || r == ',' {
			return -1
		}
		return r
	}, input))

	if cleaned == "" {
		return 0, ErrPriceRequired
	}
	if !decimalPattern.MatchString(cleaned) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, input)
	}

	amount, ok := new(big.Rat).SetString(cleaned)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, input)
	}
	if amount.Sign() < 0 {
		return 0, ErrNegativePrice
	}

	cents := new(big.Rat).Mul(amount, big.NewRat(100, 1))
	// floor(x + 1/2) for x >= 0
	num := new(big.Int).Mul(cents.Num(), big.NewInt(2))
	num.Add(num, cents.Denom())
	den := new(big.Int).Mul(cents.Denom(), big.NewInt(2))
	rounded := new(big.Int).Quo(num, den)

	if !rounded.IsInt64() || rounded.Int64() > maxPriceInCents {
		return 0, ErrPriceTooLarge
	}
	return rounded.Int64(), nil
}

// decimalPattern is an optional sign, digits with at most one decimal point,
// and an optional exponent of up to three digits.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d{1,3})?$`)

// FormatPrice renders cents as a dollar amount, e.g. 123450 -> "$1,234.50".
func FormatPrice(cents int64) string {
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("$%s.%02d", b.String(), cents%100)
}

// Window is a weekly availability range. Days are inclusive; the time of day
// is half-open [From, To). A From day after the To day wraps over the weekend.
type Window struct {
	FromDay     time.Weekday
	ToDay       time.Weekday
	FromMinutes int
	ToMinutes   int
}

// NewWindow builds a Window from stored doctor fields.
func NewWindow(fromDay, toDay int, fromTime, toTime string) (Window, error) {
	if fromDay < 0 || fromDay > 6 || toDay < 0 || toDay > 6 {
		return Window{}, ErrInvalidWeekday
	}
	from, err := ParseClock(fromTime)
	if err != nil {
		return Window{}, err
	}
	to, err := ParseClock(toTime)
	if err != nil {
		return Window{}, err
	}
	return Window{
		FromDay:     time.Weekday(fromDay),
		ToDay:       time.Weekday(toDay),
		FromMinutes: from,
		ToMinutes:   to,
	}, nil
}

// IncludesDay reports whether d falls in the window's day range.
func (w Window) IncludesDay(d time.Weekday) bool {
	if w.FromDay <= w.ToDay {
		return d >= w.FromDay && d <= w.ToDay
	}
	return d >= w.FromDay || d <= w.ToDay
}

// Contains reports whether t, read in its own location, is inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.IncludesDay(t.Weekday()) {
		return false
	}
	seconds := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return seconds >= w.FromMinutes*60 && seconds < w.ToMinutes*60
}
