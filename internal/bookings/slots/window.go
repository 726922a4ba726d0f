package slots

import (
	bookingserrors "counsel/internal/bookings/errors"
	"counsel/pkg/model"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/teambition/rrule-go"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Window is a validated weekly availability window. Start and End are offsets
// from UTC midnight.
type Window struct {
	Weekday time.Weekday
	Start   time.Duration
	End     time.Duration
}

func ParseWindow(w model.AvailabilityWindow) (Window, error) {
	if w.Weekday < 0 || w.Weekday > 6 {
		return Window{}, fmt.Errorf("%w: weekday %d out of range", bookingserrors.ErrInvalidWindow, w.Weekday)
	}
	start, err := parseClock(w.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := parseClock(w.EndTime)
	if err != nil {
		return Window{}, err
	}
	if start >= end {
		return Window{}, fmt.Errorf("%w: start %s is not before end %s", bookingserrors.ErrInvalidWindow, w.StartTime, w.EndTime)
	}
	return Window{Weekday: time.Weekday(w.Weekday), Start: start, End: end}, nil
}

// ParseWindows returns the valid windows in input order together with one
// error per rejected window.
func ParseWindows(raw []model.AvailabilityWindow) ([]Window, []error) {
	windows := make([]Window, 0, len(raw))
	var errs []error
	for i, w := range raw {
		parsed, err := ParseWindow(w)
		if err != nil {
			errs = append(errs, fmt.Errorf("window %d: %w", i, err))
			continue
		}
		windows = append(windows, parsed)
	}
	return windows, errs
}

func parseClock(s string) (time.Duration, error) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", bookingserrors.ErrInvalidWindow, s)
	}
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return time.Duration(h)*time.Hour + time.Duration(minute)*time.Minute, nil
}

func (w Window) rule(dtstart time.Time) (*rrule.RRule, error) {
	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Byweekday: []rrule.Weekday{rruleWeekdays[w.Weekday]},
		Byhour:    []int{int(w.Start / time.Hour)},
		Byminute:  []int{int((w.Start % time.Hour) / time.Minute)},
		Bysecond:  []int{0},
	})
}

// On returns the window's occurrence on the UTC day containing day, if the
// weekly rule fires that day.
func (w Window) On(day time.Time) (Interval, bool) {
	dayStart := StartOfDay(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	r, err := w.rule(dayStart)
	if err != nil {
		return Interval{}, false
	}
	for _, occ := range r.Between(dayStart, dayEnd, true) {
		if occ.Before(dayEnd) {
			return Interval{Start: occ, End: occ.Add(w.End - w.Start)}, true
		}
	}
	return Interval{}, false
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
