package cutoff

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

const (
	day   = 24 * time.Hour
	month = time.Duration(30.44 * float64(day))
	year  = time.Duration(365.25 * float64(day))
)

const dateTimeLayout = "2006-01-02T15:04:05"

// ErrEmpty is returned for a blank value.
var ErrEmpty = errors.New("empty cutoff")

var units = map[string]time.Duration{
	"ns": time.Nanosecond, "nsec": time.Nanosecond, "nanos": time.Nanosecond,
	"us": time.Microsecond, "µs": time.Microsecond, "usec": time.Microsecond, "micros": time.Microsecond,
	"ms": time.Millisecond, "msec": time.Millisecond, "millis": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"M": month, "month": month, "months": month,
	"y": year, "year": year, "years": year,
}

// Parse resolves value relative to now. Dates without a zone are read in loc;
// a nil loc means time.Local.
func Parse(value string, now time.Time, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, ErrEmpty
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.ParseInLocation(dateTimeLayout, trimmed, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, trimmed, loc); err == nil {
		return t, nil
	}
	if strings.HasPrefix(trimmed, "P") {
		return parseISO(trimmed, now)
	}
	d, err := ParseHuman(trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff %q: expected a duration like 30d or P1M, or a date like 2025-01-15 or 2025-01-15T06:30:53: %w", value, err)
	}
	return now.Add(-d), nil
}

func parseISO(value string, now time.Time) (time.Time, error) {
	d, err := duration.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 duration %q: %w", value, err)
	}
	if d.Negative {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 duration %q: must not be negative", value)
	}
	if whole(d.Years) && whole(d.Months) && whole(d.Weeks) && whole(d.Days) {
		clock := time.Duration(d.Hours*float64(time.Hour)) +
			time.Duration(d.Minutes*float64(time.Minute)) +
			time.Duration(d.Seconds*float64(time.Second))
		return now.AddDate(-int(d.Years), -int(d.Months), -int(d.Weeks*7+d.Days)).Add(-clock), nil
	}
	return now.Add(-d.ToTimeDuration()), nil
}

func whole(f float64) bool {
	return f == math.Trunc(f)
}

// ParseHuman parses a sequence of number-unit pairs such as "1y 6M" or
// "2h30m". Units are case-sensitive only where M and m differ.
func ParseHuman(value string) (time.Duration, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, ErrEmpty
	}
	var total time.Duration
	for s != "" {
		s = strings.TrimLeft(s, " \t")
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("expected number at %q", s)
		}
		var n int64
		for _, c := range s[:i] {
			if n > (math.MaxInt64-9)/10 {
				return 0, fmt.Errorf("number too large in %q", value)
			}
			n = n*10 + int64(c-'0')
		}
		s = strings.TrimLeft(s[i:], " \t")

		j := 0
		for j < len(s) && !(s[j] >= '0' && s[j] <= '9') && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		if j == 0 {
			return 0, fmt.Errorf("missing unit after %d", n)
		}
		name := s[:j]
		unit, ok := units[name]
		if !ok {
			unit, ok = units[strings.ToLower(name)]
		}
		if !ok {
			return 0, fmt.Errorf("unknown unit %q", name)
		}
		if n > 0 && unit > math.MaxInt64/time.Duration(n) {
			return 0, fmt.Errorf("duration %q overflows", value)
		}
		step := time.Duration(n) * unit
		if total > math.MaxInt64-step {
			return 0, fmt.Errorf("duration %q overflows", value)
		}
		total += step
		s = s[j:]
	}
	return total, nil
}
