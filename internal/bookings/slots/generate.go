package slots

import (
	"counsel/pkg/model"
	"slices"
	"time"
)

// Generate expands the windows that fall on day into consecutive slots of
// the given duration. A trailing remainder shorter than duration is dropped.
// Slots overlapping any booked interval are marked not free. The result is
// stably sorted by start, so overlapping windows can yield duplicate slots.
func Generate(windows []Window, booked []Interval, day time.Time, duration time.Duration) []model.Slot {
	out := make([]model.Slot, 0)
	if duration <= 0 {
		return out
	}

	for _, w := range windows {
		iv, ok := w.On(day)
		if !ok {
			continue
		}
		for s := iv.Start; !s.Add(duration).After(iv.End); s = s.Add(duration) {
			slot := Interval{Start: s, End: s.Add(duration)}
			out = append(out, model.Slot{
				Start:  slot.Start,
				End:    slot.End,
				IsFree: !ConflictsAny(slot, booked),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b model.Slot) int {
		return a.Start.Compare(b.Start)
	})
	return out
}
