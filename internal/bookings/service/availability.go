package service

import (
	"context"
	"counsel/internal/bookings/repository"
	"counsel/internal/bookings/slots"
	"counsel/pkg/config"
	apperrors "counsel/pkg/errors"
	"counsel/pkg/model"
	"counsel/pkg/sanitizer"
	"time"
)

type AvailabilityService interface {
	ListSlots(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error)
}

type availabilityService struct {
	counsellors  repository.CounsellorRepository
	appointments repository.AppointmentRepository
	cfg          *config.Config
}

func NewAvailabilityService(
	counsellors repository.CounsellorRepository,
	appointments repository.AppointmentRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		counsellors:  counsellors,
		appointments: appointments,
		cfg:          cfg,
	}
}

// ListSlots returns every slot of the counsellor on the UTC day containing
// date, with IsFree reflecting SCHEDULED appointments. It takes no locks.
func (s *availabilityService) ListSlots(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error) {
	counsellorID = sanitizer.NormalizeToken(counsellorID)
	if counsellorID == "" {
		return nil, apperrors.InvalidInput("Counsellor ID cannot be empty")
	}
	if date.IsZero() {
		return nil, apperrors.InvalidInput("Date cannot be empty")
	}

	counsellor, err := resolveCounsellor(ctx, s.counsellors, counsellorID)
	if err != nil {
		return nil, err
	}

	windows, invalid := slots.ParseWindows(counsellor.Availability)
	for _, werr := range invalid {
		s.cfg.Log.Warn("Skipping malformed availability window",
			"counsellor_id", counsellorID,
			"error", werr,
		)
	}

	day := slots.StartOfDay(date)
	booked, err := scheduledIntervals(ctx, s.appointments, counsellorID, slots.Interval{
		Start: day,
		End:   day.Add(24 * time.Hour),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to load booked appointments", "counsellor_id", counsellorID, "error", err)
		return nil, err
	}

	result := slots.Generate(windows, booked, day, sessionDuration(counsellor, s.cfg.DefaultSessionDurationMin))

	s.cfg.Log.Debug("Slots listed",
		"counsellor_id", counsellorID,
		"date", day.Format(config.DateLayout),
		"count", len(result),
		"booked", len(booked),
	)
	return result, nil
}
