package calendar

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder("no-reply@counsel.local", "Campus Counselling")
	b.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	out, err := b.Build(Invite{
		UID:         "appt-1",
		Title:       "Counselling with Dr. Rao",
		Description: "first session",
		Location:    "https://meet.jit.si/campus-c1-1736154000000",
		Start:       start,
		End:         start.Add(30 * time.Minute),
		Attendees:   []string{"student@example.edu", " "},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]

	if got := ev.GetProperty(ical.ComponentPropertySummary).Value; got != "Counselling with Dr. Rao" {
		t.Errorf("summary = %q", got)
	}
	if got := ev.GetProperty(ical.ComponentPropertyDescription).Value; got != "first session" {
		t.Errorf("description = %q", got)
	}
	gotStart, err := ev.GetStartAt()
	if err != nil || !gotStart.Equal(start) {
		t.Errorf("start = %s (err %v), want %s", gotStart, err, start)
	}
	gotEnd, err := ev.GetEndAt()
	if err != nil || !gotEnd.Equal(start.Add(30*time.Minute)) {
		t.Errorf("end = %s (err %v)", gotEnd, err)
	}

	attendees := ev.Attendees()
	if len(attendees) != 1 {
		t.Fatalf("expected 1 attendee, got %d", len(attendees))
	}
	if attendees[0].Email() != "student@example.edu" {
		t.Errorf("attendee = %q", attendees[0].Email())
	}
	if !strings.Contains(out, "METHOD:REQUEST") {
		t.Error("expected METHOD:REQUEST")
	}
}

func TestBuilder_BuildValidation(t *testing.T) {
	b := NewBuilder("", "")
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	if _, err := b.Build(Invite{Start: start, End: start.Add(time.Hour)}); err == nil {
		t.Error("expected error for missing UID")
	}
	if _, err := b.Build(Invite{UID: "x", Start: start, End: start}); err == nil {
		t.Error("expected error for empty interval")
	}
}

func TestBuilder_NoAttendees(t *testing.T) {
	b := NewBuilder("", "")
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	out, err := b.Build(Invite{UID: "x", Title: "t", Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(out, "ATTENDEE") || strings.Contains(out, "ORGANIZER") {
		t.Errorf("unexpected participants in %q", out)
	}
}
