package timestamps

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Kind names one of the timestamps a filesystem may record for a file.
type Kind string

const (
	Created  Kind = "created"
	Modified Kind = "modified"
	Accessed Kind = "accessed"
)

var acceptedKinds = []string{"created (c)", "modified (m)", "accessed (a)"}

// DefaultKinds returns the kinds consulted when none are configured.
func DefaultKinds() []Kind {
	return []Kind{Created, Modified}
}

// ParseKind accepts a full kind name or its one-letter short form.
func ParseKind(value string) (Kind, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "c", "created":
		return Created, nil
	case "m", "modified":
		return Modified, nil
	case "a", "accessed":
		return Accessed, nil
	default:
		return "", fmt.Errorf("unsupported file date type %q: use one of %s", trimmed, strings.Join(acceptedKinds, ", "))
	}
}

// ParseKinds parses every value, splitting comma-separated lists, and drops
// duplicates while keeping first-seen order.
func ParseKinds(values []string) ([]Kind, error) {
	var kinds []Kind
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			kind, err := ParseKind(part)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("at least one file date type is required: use %s", strings.Join(acceptedKinds, ", "))
	}
	return lo.Uniq(kinds), nil
}

// Times holds the timestamps that are present for one file.
type Times map[Kind]time.Time

// Resolve returns the most recent of the requested timestamps that are present.
// The boolean is false when none of the requested kinds exist on the file.
func Resolve(times Times, kinds []Kind) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, kind := range kinds {
		value, ok := times[kind]
		if !ok || value.IsZero() {
			continue
		}
		if !found || value.After(latest) {
			latest = value
			found = true
		}
	}
	return latest, found
}
