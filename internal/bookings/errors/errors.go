package errors

import "errors"

var (
	ErrCounsellorNotFound = errors.New("counsellor not found")

	ErrAppointmentNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrInvalidWindow = errors.New("invalid availability window")
)
