package period

import (
	"fmt"
	"strings"
)

// Strategy selects how dates are grouped. The zero value means no grouping.
type Strategy string

const (
	None         Strategy = ""
	Week         Strategy = "week"
	Biweekly     Strategy = "biweekly"
	Month        Strategy = "month"
	Trimester    Strategy = "trimester"
	Quadrimester Strategy = "quadrimester"
	Semester     Strategy = "semester"
	Year         Strategy = "year"
)

// Strategies lists every grouping strategy in canonical order.
func Strategies() []Strategy {
	return []Strategy{Week, Biweekly, Month, Trimester, Quadrimester, Semester, Year}
}

// ParseStrategy resolves a strategy name. An empty or "none" value yields None.
func ParseStrategy(value string) (Strategy, error) {
	switch name := strings.ToLower(strings.TrimSpace(value)); name {
	case "", "none":
		return None, nil
	case "quarter":
		return Trimester, nil
	case "half":
		return Semester, nil
	default:
		s := Strategy(name)
		if s.Valid() {
			return s, nil
		}
		names := make([]string, 0, 7)
		for _, candidate := range Strategies() {
			names = append(names, string(candidate))
		}
		return None, fmt.Errorf("unknown grouping strategy %q: use one of %s", value, strings.Join(names, ", "))
	}
}

// Valid reports whether s is one of the seven grouping strategies.
func (s Strategy) Valid() bool {
	_, ok := variants[s]
	return ok
}

// Example returns a sample label, handy for help text.
func (s Strategy) Example() string {
	if v, ok := variants[s]; ok {
		return v.example
	}
	return ""
}

func (s Strategy) String() string {
	if s == None {
		return "none"
	}
	return string(s)
}
