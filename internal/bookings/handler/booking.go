package handler

import (
	"net/http"
	"time"

	"counsel/internal/bookings/service"
	"counsel/internal/bookings/slots"
	httputil "counsel/pkg/http"
	"counsel/pkg/logger"
	"counsel/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	availability service.AvailabilityService
	bookings     service.BookingService
	appointments service.AppointmentService
	idempotency  func(http.Handler) http.Handler
	log          *logger.Logger
	now          func() time.Time
}

func NewBookingHandler(
	availability service.AvailabilityService,
	bookings service.BookingService,
	appointments service.AppointmentService,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		bookings:     bookings,
		appointments: appointments,
		log:          log,
		now:          time.Now,
	}
}

// WithIdempotency wraps the booking route, and only that route, in mw.
func (h *BookingHandler) WithIdempotency(mw func(http.Handler) http.Handler) *BookingHandler {
	h.idempotency = mw
	return h
}

func (h *BookingHandler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.QueryDate(r, "date", slots.StartOfDay(h.now()))
	if err != nil {
		h.writeError(w, "ListSlots", err)
		return
	}

	result, err := h.availability.ListSlots(r.Context(), ps.ByName("id"), date)
	if err != nil {
		h.writeError(w, "ListSlots", err)
		return
	}

	if result == nil {
		result = []model.Slot{}
	}
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Book", err)
		return
	}

	result, err := h.bookings.Book(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	// HELPLINE requests create nothing.
	if result.AppointmentID == "" {
		if err := httputil.WriteSuccess(w, result); err != nil {
			h.log.Error("failed to write success response", "handler", "Book", "operation", "WriteSuccess", "error", err)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	appointment, err := h.appointments.GetAppointment(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetAppointment", err)
		return
	}

	if err := httputil.WriteSuccess(w, appointment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAppointment", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListAppointments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	from, err := httputil.QueryTime(r, "from")
	if err != nil {
		h.writeError(w, "ListAppointments", err)
		return
	}
	to, err := httputil.QueryTime(r, "to")
	if err != nil {
		h.writeError(w, "ListAppointments", err)
		return
	}

	appointments, err := h.appointments.ListCounsellorAppointments(r.Context(), ps.ByName("id"), from, to)
	if err != nil {
		h.writeError(w, "ListAppointments", err)
		return
	}

	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	if err := httputil.WriteSuccess(w, appointments); err != nil {
		h.log.Error("failed to write success response", "handler", "ListAppointments", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/counsellors/:id/availability", h.ListSlots)
	router.GET("/api/v1/counsellors/:id/appointments", h.ListAppointments)
	router.GET("/api/v1/appointments/:id", h.GetAppointment)

	var book http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Book(w, r, nil)
	})
	if h.idempotency != nil {
		book = h.idempotency(book)
	}
	router.Handler(http.MethodPost, "/api/v1/bookings", book)
}
