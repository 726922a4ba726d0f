package service

import (
	"context"
	"counsel/internal/bookings/calendar"
	"counsel/internal/bookings/helplines"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/notify"
	"counsel/internal/bookings/repository"
	"counsel/internal/bookings/slots"
	"counsel/internal/bookings/validator"
	"counsel/pkg/config"
	apperrors "counsel/pkg/errors"
	"counsel/pkg/model"
	"counsel/pkg/sanitizer"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	icsDataURIPrefix = "data:text/calendar;base64,"
	bookedMessage    = "Appointment booked"
)

type BookingService interface {
	Book(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
}

// BookingDeps groups the collaborators of the booking orchestrator.
type BookingDeps struct {
	Counsellors  repository.CounsellorRepository
	Appointments repository.AppointmentRepository
	Locker       *lock.SlotLocker
	Validator    *validator.BookingValidator
	Invites      *calendar.Builder
	Notifier     notify.Notifier
	Helplines    *helplines.Directory
}

type bookingService struct {
	counsellors  repository.CounsellorRepository
	appointments repository.AppointmentRepository
	locker       *lock.SlotLocker
	validator    *validator.BookingValidator
	invites      *calendar.Builder
	notifier     notify.Notifier
	helplines    *helplines.Directory
	cfg          *config.Config
	now          func() time.Time
}

func NewBookingService(deps BookingDeps, cfg *config.Config) BookingService {
	directory := deps.Helplines
	if directory == nil {
		directory = helplines.Default()
	}
	return &bookingService{
		counsellors:  deps.Counsellors,
		appointments: deps.Appointments,
		locker:       deps.Locker,
		validator:    deps.Validator,
		invites:      deps.Invites,
		notifier:     deps.Notifier,
		helplines:    directory,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Book reserves a slot for a student. At most one SCHEDULED appointment per
// counsellor may cover any instant; concurrent requests for the same start
// are serialized by the slot lock and re-checked against storage under it.
func (s *bookingService) Book(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request cannot be empty")
	}

	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if req.Mode == config.ModeHelpline {
		s.cfg.Log.Info("Helpline requested", "counsellor_id", req.CounsellorID)
		return &model.BookingResult{
			Helplines: s.helplines.List(),
			Message:   s.helplines.Message,
		}, nil
	}

	counsellor, err := resolveCounsellor(ctx, s.counsellors, req.CounsellorID)
	if err != nil {
		return nil, err
	}

	start := req.StartAt.UTC()
	slot := slots.Interval{
		Start: start,
		End:   start.Add(sessionDuration(counsellor, s.cfg.DefaultSessionDurationMin)),
	}

	key := lock.SlotKey(req.CounsellorID, start)
	token, err := s.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			s.cfg.Log.Info("Slot is locked by another request", "key", key)
			return nil, apperrors.SlotLocked("This slot is being booked by someone else. Please try again.")
		}
		s.cfg.Log.Error("Failed to acquire slot lock", "key", key, "error", err)
		return nil, apperrors.Internal("Failed to acquire slot lock", err)
	}
	defer s.locker.Release(context.WithoutCancel(ctx), key, token)

	booked, err := scheduledIntervals(ctx, s.appointments, req.CounsellorID, slot)
	if err != nil {
		s.cfg.Log.Error("Failed to re-check slot", "key", key, "error", err)
		return nil, err
	}
	if slots.ConflictsAny(slot, booked) {
		s.cfg.Log.Info("Slot already booked", "key", key)
		return nil, apperrors.SlotTaken("Slot already booked")
	}

	appointment := &model.Appointment{
		CounsellorID: req.CounsellorID,
		StudentID:    req.StudentID,
		SessionToken: req.SessionToken,
		StudentEmail: req.StudentEmail,
		Mode:         req.Mode,
		StartAt:      slot.Start,
		EndAt:        slot.End,
		Status:       config.StatusScheduled,
		Note:         req.Note,
	}
	switch req.Mode {
	case config.ModeVideo:
		appointment.MeetingLink = s.meetingLink(req.CounsellorID)
		appointment.Location = appointment.MeetingLink
	case config.ModeOffline:
		appointment.Location = officeLocation(counsellor, s.cfg.DefaultOfficeLocation)
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		s.cfg.Log.Error("Failed to create appointment", "key", key, "error", err)
		return nil, apperrors.Internal("Failed to create appointment", err)
	}

	s.attachInvite(ctx, counsellor, appointment)
	s.notifyParticipants(ctx, counsellor, appointment)

	s.cfg.Log.Info("Appointment booked",
		"id", appointment.ID,
		"counsellor_id", appointment.CounsellorID,
		"mode", appointment.Mode,
		"start_at", appointment.StartAt,
	)

	return &model.BookingResult{
		AppointmentID: appointment.ID,
		MeetingLink:   appointment.MeetingLink,
		ICSLink:       appointment.ICSLink,
		Location:      appointment.Location,
		Message:       bookedMessage,
	}, nil
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.CounsellorID = sanitizer.NormalizeToken(req.CounsellorID)
	req.StudentID = sanitizer.NormalizeToken(req.StudentID)
	req.SessionToken = sanitizer.NormalizeToken(req.SessionToken)
	req.StudentEmail = sanitizer.NormalizeEmail(req.StudentEmail)
	req.Note = sanitizer.NormalizeNote(req.Note)
	req.Mode = config.AppointmentMode(strings.ToUpper(sanitizer.TrimAndNormalize(string(req.Mode))))
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Booking validation failed", verrs.Details())
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// meetingLink builds a unique room URL under the configured base.
func (s *bookingService) meetingLink(counsellorID string) string {
	base := s.cfg.MeetingBaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	room := fmt.Sprintf("campus-%s-%s", counsellorID, strconv.FormatInt(s.now().UnixMilli(), 10))
	return base + url.PathEscape(room)
}

// attachInvite renders the calendar invite and stores it on the appointment
// as a data URI. Failures are logged and leave ICSLink empty or unsaved.
func (s *bookingService) attachInvite(ctx context.Context, counsellor *model.Counsellor, a *model.Appointment) {
	var attendees []string
	if a.StudentEmail != "" {
		attendees = append(attendees, a.StudentEmail)
	}

	ics, err := s.invites.Build(calendar.Invite{
		UID:         a.ID,
		Title:       "Counselling with " + counsellor.DisplayName,
		Description: a.Note,
		Location:    a.Location,
		URL:         a.MeetingLink,
		Start:       a.StartAt,
		End:         a.EndAt,
		Attendees:   attendees,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to build calendar invite", "id", a.ID, "error", err)
		return
	}

	link := icsDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(ics))
	a.ICSLink = link

	if err := s.appointments.Update(ctx, a.ID, model.AppointmentPatch{ICSLink: &link}); err != nil {
		s.cfg.Log.Warn("Failed to store calendar invite", "id", a.ID, "error", err)
	}
}

// notifyParticipants tells the counsellor and, when an address was given, the
// student. Delivery failures never fail the booking.
func (s *bookingService) notifyParticipants(ctx context.Context, counsellor *model.Counsellor, a *model.Appointment) {
	when := a.StartAt.UTC().Format(time.RFC3339)
	body := appointmentSummary(a)

	if counsellor.ContactEmail != "" {
		if err := s.notifier.Send(ctx, counsellor.ContactEmail, "New booking: "+when, body); err != nil {
			s.cfg.Log.Warn("Failed to notify counsellor", "id", a.ID, "error", err)
		}
	} else {
		s.cfg.Log.Debug("Counsellor has no contact email, skipping notification", "counsellor_id", a.CounsellorID)
	}

	if a.StudentEmail != "" {
		if err := s.notifier.Send(ctx, a.StudentEmail, "Your appointment is confirmed: "+when, body); err != nil {
			s.cfg.Log.Warn("Failed to notify student", "id", a.ID, "error", err)
		}
	}
}

func appointmentSummary(a *model.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s\n", a.Mode)
	fmt.Fprintf(&b, "Starts: %s\n", a.StartAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Ends: %s\n", a.EndAt.UTC().Format(time.RFC3339))
	if a.Location != "" {
		fmt.Fprintf(&b, "Where: %s\n", a.Location)
	}
	if a.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", a.Note)
	}
	return b.String()
}
