// Package cutoff turns an --older-than value into an absolute instant.
//
// Accepted forms, tried in order:
//
//	2025-01-15T06:30:53   local date and time
//	2025-01-15            local midnight
//	P1Y2M, P2W, PT36H     ISO-8601 duration before now
//	30d, 1y 6M, 2h30m     human duration before now
//
// Human durations use y (365.25 days), M (30.44 days), w, d, h, m or min,
// s, ms, us and ns, plus the spelled-out unit names.
package cutoff
