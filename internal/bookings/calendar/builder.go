package calendar

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const productID = "counsel"

// Invite describes a single calendar event.
type Invite struct {
	UID         string
	Title       string
	Description string
	Location    string
	URL         string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// Builder renders invites as iCalendar REQUEST documents.
type Builder struct {
	organizerEmail string
	organizerName  string
	now            func() time.Time
}

func NewBuilder(organizerEmail, organizerName string) *Builder {
	return &Builder{
		organizerEmail: organizerEmail,
		organizerName:  organizerName,
		now:            time.Now,
	}
}

func (b *Builder) Build(inv Invite) (string, error) {
	if inv.UID == "" {
		return "", errors.New("invite UID is required")
	}
	if !inv.Start.Before(inv.End) {
		return "", errors.New("invite start must be before end")
	}

	cal := ical.NewCalendarFor(productID)
	cal.SetMethod(ical.MethodRequest)

	event := cal.AddEvent(inv.UID)
	event.SetDtStampTime(b.now().UTC())
	event.SetStartAt(inv.Start.UTC())
	event.SetEndAt(inv.End.UTC())
	event.SetSummary(inv.Title)
	event.SetStatus(ical.ObjectStatusConfirmed)
	if inv.Description != "" {
		event.SetDescription(inv.Description)
	}
	if inv.Location != "" {
		event.SetLocation(inv.Location)
	}
	if inv.URL != "" {
		event.SetURL(inv.URL)
	}
	if b.organizerEmail != "" {
		var params []ical.PropertyParameter
		if b.organizerName != "" {
			params = append(params, ical.WithCN(b.organizerName))
		}
		event.SetOrganizer(b.organizerEmail, params...)
	}
	for _, email := range inv.Attendees {
		if email = strings.TrimSpace(email); email == "" {
			continue
		}
		event.AddAttendee(email,
			ical.ParticipationRoleReqParticipant,
			ical.ParticipationStatusNeedsAction,
			ical.WithRSVP(true),
		)
	}

	return cal.Serialize(), nil
}
