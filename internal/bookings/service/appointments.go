package service

import (
	"context"
	bookingserrors "counsel/internal/bookings/errors"
	"counsel/internal/bookings/repository"
	"counsel/internal/bookings/slots"
	"counsel/pkg/config"
	apperrors "counsel/pkg/errors"
	"counsel/pkg/model"
	"counsel/pkg/sanitizer"
	"errors"
	"time"
)

type AppointmentService interface {
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	ListCounsellorAppointments(ctx context.Context, counsellorID string, from, to time.Time) ([]*model.Appointment, error)
}

type appointmentService struct {
	counsellors  repository.CounsellorRepository
	appointments repository.AppointmentRepository
	cfg          *config.Config
	now          func() time.Time
}

func NewAppointmentService(
	counsellors repository.CounsellorRepository,
	appointments repository.AppointmentRepository,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		counsellors:  counsellors,
		appointments: appointments,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *appointmentService) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	id = sanitizer.NormalizeToken(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrAppointmentNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		s.cfg.Log.Error("Failed to retrieve appointment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}

	var counsellor *model.Counsellor
	if appointment.Mode == config.ModeOffline {
		counsellor, err = s.counsellors.FindByID(ctx, appointment.CounsellorID)
		if err != nil {
			s.cfg.Log.Warn("Failed to resolve counsellor for appointment location",
				"id", id,
				"counsellor_id", appointment.CounsellorID,
				"error", err,
			)
		}
	}
	s.fillLocation(appointment, counsellor)

	return appointment, nil
}

// ListCounsellorAppointments returns SCHEDULED appointments overlapping
// [from, to). Zero bounds default to today UTC through the configured range.
func (s *appointmentService) ListCounsellorAppointments(ctx context.Context, counsellorID string, from, to time.Time) ([]*model.Appointment, error) {
	counsellorID = sanitizer.NormalizeToken(counsellorID)
	if counsellorID == "" {
		return nil, apperrors.InvalidInput("Counsellor ID cannot be empty")
	}

	if from.IsZero() {
		from = slots.StartOfDay(s.now())
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, s.cfg.AppointmentsRangeDays)
	}
	if !from.Before(to) {
		return nil, apperrors.InvalidInput("Range start must be before range end")
	}

	counsellor, err := resolveCounsellor(ctx, s.counsellors, counsellorID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.List(ctx, counsellorID, model.AppointmentFilter{
		Status:     config.StatusScheduled,
		RangeStart: from.UTC(),
		RangeEnd:   to.UTC(),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to list appointments", "counsellor_id", counsellorID, "error", err)
		return nil, apperrors.Internal("Failed to list appointments", err)
	}

	for _, a := range appointments {
		s.fillLocation(a, counsellor)
	}

	s.cfg.Log.Debug("Appointments listed",
		"counsellor_id", counsellorID,
		"from", from,
		"to", to,
		"count", len(appointments),
	)
	return appointments, nil
}

// fillLocation derives the non-persisted Location field.
func (s *appointmentService) fillLocation(a *model.Appointment, counsellor *model.Counsellor) {
	switch a.Mode {
	case config.ModeVideo:
		a.Location = a.MeetingLink
	case config.ModeOffline:
		a.Location = officeLocation(counsellor, s.cfg.DefaultOfficeLocation)
	}
}
