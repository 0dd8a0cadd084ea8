package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrMismatchedStrategy is returned when periods of different strategies are compared.
var ErrMismatchedStrategy = errors.New("periods use different strategies")

// Period is one calendar bucket. Year is the ISO week-year for Week and
// Biweekly and the calendar year otherwise; Index is the sub-period (week,
// biweekly span, month, ...) and is unused for Year.
type Period struct {
	Strategy Strategy
	Year     int
	Index    int
}

type variant struct {
	bucket  func(time.Time) (year, index int)
	label   func(year, index int) string
	start   func(year, index int, loc *time.Location) time.Time
	example string
}

// Label formats and ordering both read the same (year, index) pair; keep
// each strategy's bucket, label, and start functions together here.
var variants = map[Strategy]variant{
	Week: {
		bucket: func(t time.Time) (int, int) {
			return t.ISOWeek()
		},
		label: func(y, i int) string { return fmt.Sprintf("%d-W%02d", y, i) },
		start: func(y, i int, loc *time.Location) time.Time {
			return isoWeekStart(y, i, loc)
		},
		example: "2025-W49",
	},
	Biweekly: {
		bucket: func(t time.Time) (int, int) {
			y, w := t.ISOWeek()
			return y, biweeklyIndex(w)
		},
		label: func(y, i int) string { return fmt.Sprintf("%d-BW%02d", y, i) },
		start: func(y, i int, loc *time.Location) time.Time {
			return isoWeekStart(y, (i-1)*2+1, loc)
		},
		example: "2025-BW12",
	},
	Month: {
		bucket:  func(t time.Time) (int, int) { return t.Year(), int(t.Month()) },
		label:   func(y, i int) string { return fmt.Sprintf("%d-%02d", y, i) },
		start:   func(y, i int, loc *time.Location) time.Time { return monthStart(y, i, loc) },
		example: "2025-11",
	},
	Trimester: {
		bucket:  func(t time.Time) (int, int) { return t.Year(), spanIndex(t.Month(), 3) },
		label:   func(y, i int) string { return fmt.Sprintf("%d-Q%d", y, i) },
		start:   func(y, i int, loc *time.Location) time.Time { return monthStart(y, (i-1)*3+1, loc) },
		example: "2025-Q2",
	},
	Quadrimester: {
		bucket:  func(t time.Time) (int, int) { return t.Year(), spanIndex(t.Month(), 4) },
		label:   func(y, i int) string { return fmt.Sprintf("%d-QD%d", y, i) },
		start:   func(y, i int, loc *time.Location) time.Time { return monthStart(y, (i-1)*4+1, loc) },
		example: "2025-QD2",
	},
	Semester: {
		bucket:  func(t time.Time) (int, int) { return t.Year(), spanIndex(t.Month(), 6) },
		label:   func(y, i int) string { return fmt.Sprintf("%d-H%d", y, i) },
		start:   func(y, i int, loc *time.Location) time.Time { return monthStart(y, (i-1)*6+1, loc) },
		example: "2025-H1",
	},
	Year: {
		bucket:  func(t time.Time) (int, int) { return t.Year(), 0 },
		label:   func(y, _ int) string { return fmt.Sprintf("%d", y) },
		start:   func(y, _ int, loc *time.Location) time.Time { return monthStart(y, 1, loc) },
		example: "2025",
	},
}

// Classify returns the period containing date under strategy, evaluated in
// date's own location. It panics for None or an unknown strategy; callers
// validate strategies up front.
func Classify(date time.Time, strategy Strategy) Period {
	v, ok := variants[strategy]
	if !ok {
		panic(fmt.Sprintf("period: classify with unsupported strategy %q", strategy))
	}
	year, index := v.bucket(date)
	return Period{Strategy: strategy, Year: year, Index: index}
}

// IsBeforeCurrent reports whether date falls in a period strictly earlier than
// the one containing now.
func IsBeforeCurrent(date time.Time, strategy Strategy, now time.Time) bool {
	cmp, err := Classify(date, strategy).Compare(Classify(now, strategy))
	return err == nil && cmp < 0
}

// Label returns the canonical folder name for the period.
func (p Period) Label() string {
	v, ok := variants[p.Strategy]
	if !ok {
		return ""
	}
	return v.label(p.Year, p.Index)
}

func (p Period) String() string {
	return p.Label()
}

// Compare orders two periods of the same strategy by year, then index.
func (p Period) Compare(other Period) (int, error) {
	if p.Strategy != other.Strategy {
		return 0, fmt.Errorf("%w: %s vs %s", ErrMismatchedStrategy, p.Strategy, other.Strategy)
	}
	switch {
	case p.Year < other.Year:
		return -1, nil
	case p.Year > other.Year:
		return 1, nil
	case p.Index < other.Index:
		return -1, nil
	case p.Index > other.Index:
		return 1, nil
	default:
		return 0, nil
	}
}

// Start returns the first instant of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	v, ok := variants[p.Strategy]
	if !ok {
		return time.Time{}
	}
	return v.start(p.Year, p.Index, loc)
}

// ISO week 53 has no partner week, so it joins BW26.
func biweeklyIndex(isoWeek int) int {
	index := (isoWeek-1)/2 + 1
	if index > 26 {
		return 26
	}
	return index
}

func spanIndex(month time.Month, span int) int {
	return (int(month)-1)/span + 1
}

func monthStart(year, month int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
}

// January 4th is always in ISO week 1.
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, (week-1)*7)
}
