package availability

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidClock = apperror.New(http.StatusBadRequest, "invalid_input", "time must be in HH:MM 24-hour format")
	ErrInvalidDate  = apperror.New(http.StatusBadRequest, "invalid_input", "date must be in YYYY-MM-DD format")
)

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("parse clock %q: %w", s, ErrInvalidClock)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: %w", s, ErrInvalidClock)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock accepts the "HH:MM:SS" form Postgres returns for TIME columns
// and trims it to "HH:MM". Only a zero seconds part is accepted.
func NormalizeClock(s string) string {
	if len(s) == 8 && strings.HasSuffix(s, ":00") {
		return s[:5]
	}
	return s
}

// Date is a calendar day without a location; it becomes a concrete instant
// only once the organization's timezone is known.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func (d Date) Weekday() int {
	return int(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday())
}

// At returns the instant minutes after midnight of d in loc.
func (d Date) At(minutes int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, minutes, 0, 0, loc)
}

// After reports whether d is a later calendar day than o.
func (d Date) After(o Date) bool {
	return d.At(0, time.UTC).After(o.At(0, time.UTC))
}

// Bounds returns [midnight, next midnight) of d in loc.
func (d Date) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	return start, time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
