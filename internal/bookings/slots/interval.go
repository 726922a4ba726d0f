package slots

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Conflicts reports whether a and b share any instant. Touching intervals do
// not conflict.
func Conflicts(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ConflictsAny reports whether iv conflicts with any of others.
func ConflictsAny(iv Interval, others []Interval) bool {
	for _, o := range others {
		if Conflicts(iv, o) {
			return true
		}
	}
	return false
}
