package service

import (
	"context"
	bookingserrors "counsel/internal/bookings/errors"
	"counsel/internal/bookings/repository"
	"counsel/internal/bookings/slots"
	"counsel/pkg/config"
	apperrors "counsel/pkg/errors"
	"counsel/pkg/model"
	"errors"
	"time"
)

func resolveCounsellor(ctx context.Context, repo repository.CounsellorRepository, id string) (*model.Counsellor, error) {
	counsellor, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrCounsellorNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Counsellor", id)
		}
		return nil, apperrors.Internal("Failed to retrieve counsellor", err)
	}
	return counsellor, nil
}

// scheduledIntervals loads the counsellor's SCHEDULED appointments that
// overlap iv.
func scheduledIntervals(ctx context.Context, repo repository.AppointmentRepository, counsellorID string, iv slots.Interval) ([]slots.Interval, error) {
	appointments, err := repo.List(ctx, counsellorID, model.AppointmentFilter{
		Status:     config.StatusScheduled,
		RangeStart: iv.Start,
		RangeEnd:   iv.End,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to load appointments", err)
	}

	booked := make([]slots.Interval, 0, len(appointments))
	for _, a := range appointments {
		booked = append(booked, slots.Interval{Start: a.StartAt, End: a.EndAt})
	}
	return booked, nil
}

// sessionDuration falls back to fallbackMin when the stored duration is not
// positive.
func sessionDuration(c *model.Counsellor, fallbackMin int) time.Duration {
	minutes := c.DefaultDurationMin
	if minutes <= 0 {
		minutes = fallbackMin
	}
	return time.Duration(minutes) * time.Minute
}

func officeLocation(c *model.Counsellor, fallback string) string {
	if c != nil && c.OfficeLocation != "" {
		return c.OfficeLocation
	}
	return fallback
}
