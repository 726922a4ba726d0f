package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"counsel/pkg/config"
	apperrors "counsel/pkg/errors"
	httputil "counsel/pkg/http"
	"counsel/pkg/logger"
	"counsel/pkg/middleware"
	"counsel/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAvailabilityService struct {
	listSlotsFunc func(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error)
}

func (m *mockAvailabilityService) ListSlots(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error) {
	if m.listSlotsFunc != nil {
		return m.listSlotsFunc(ctx, counsellorID, date)
	}
	return nil, nil
}

type mockBookingService struct {
	bookFunc func(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
}

func (m *mockBookingService) Book(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	if m.bookFunc != nil {
		return m.bookFunc(ctx, req)
	}
	return &model.BookingResult{AppointmentID: "a1"}, nil
}

type mockAppointmentService struct {
	getFunc  func(ctx context.Context, id string) (*model.Appointment, error)
	listFunc func(ctx context.Context, counsellorID string, from, to time.Time) ([]*model.Appointment, error)
}

func (m *mockAppointmentService) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Appointment", id)
}

func (m *mockAppointmentService) ListCounsellorAppointments(ctx context.Context, counsellorID string, from, to time.Time) ([]*model.Appointment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, counsellorID, from, to)
	}
	return nil, nil
}

var testNow = time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC)

func newTestRouter(a *mockAvailabilityService, b *mockBookingService, s *mockAppointmentService) *httprouter.Router {
	h := NewBookingHandler(a, b, s, logger.Discard())
	h.now = func() time.Time { return testNow }
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListSlots_DefaultsToToday(t *testing.T) {
	var gotID string
	var gotDate time.Time
	router := newTestRouter(&mockAvailabilityService{
		listSlotsFunc: func(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error) {
			gotID, gotDate = counsellorID, date
			return []model.Slot{{Start: date.Add(9 * time.Hour), End: date.Add(9*time.Hour + 30*time.Minute), IsFree: true}}, nil
		},
	}, &mockBookingService{}, &mockAppointmentService{})

	rec := serve(router, http.MethodGet, "/api/v1/counsellors/c1/availability", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "c1" {
		t.Errorf("counsellor id = %q", gotID)
	}
	if !gotDate.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", gotDate)
	}

	var resp struct {
		Data []model.Slot `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(resp.Data) != 1 || !resp.Data[0].IsFree {
		t.Errorf("unexpected slots: %v", resp.Data)
	}
}

func TestListSlots_EmptyIsArray(t *testing.T) {
	router := newTestRouter(&mockAvailabilityService{}, &mockBookingService{}, &mockAppointmentService{})

	rec := serve(router, http.MethodGet, "/api/v1/counsellors/c1/availability?date=2025-01-07", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListSlots_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "bad date", target: "/api/v1/counsellors/c1/availability?date=tomorrow", wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "unknown counsellor", target: "/api/v1/counsellors/c1/availability", serviceErr: apperrors.NotFoundWithID("Counsellor", "c1"), wantStatus: http.StatusNotFound, wantCode: apperrors.CodeNotFound},
		{name: "store failure", target: "/api/v1/counsellors/c1/availability", serviceErr: apperrors.Internal("Failed", errors.New("db")), wantStatus: http.StatusInternalServerError, wantCode: apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockAvailabilityService{
				listSlotsFunc: func(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error) {
					return nil, tt.serviceErr
				},
			}, &mockBookingService{}, &mockAppointmentService{})

			rec := serve(router, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp httputil.ErrorResponse
			_ = json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestBook_Created(t *testing.T) {
	var got *model.BookingRequest
	router := newTestRouter(&mockAvailabilityService{}, &mockBookingService{
		bookFunc: func(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
			got = req
			return &model.BookingResult{
				AppointmentID: "a1",
				MeetingLink:   "https://meet.jit.si/campus-c1-1",
				ICSLink:       "data:text/calendar;base64,QQ==",
			}, nil
		},
	}, &mockAppointmentService{})

	body := `{"counsellor_id":"c1","start_at":"2025-01-06T09:00:00Z","mode":"VIDEO","student_email":"s@example.edu"}`
	rec := serve(router, http.MethodPost, "/api/v1/bookings", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got.CounsellorID != "c1" || got.Mode != config.ModeVideo || !got.StartAt.Equal(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected request: %+v", got)
	}

	var resp struct {
		Data model.BookingResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Data.AppointmentID != "a1" || !strings.HasPrefix(resp.Data.MeetingLink, "https://") {
		t.Errorf("unexpected result: %+v", resp.Data)
	}
}

func TestBook_HelplineIsOK(t *testing.T) {
	router := newTestRouter(&mockAvailabilityService{}, &mockBookingService{
		bookFunc: func(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
			return &model.BookingResult{
				Helplines: []model.Helpline{{Country: "India", Number: "+91-XXXXXXXXXX", Label: "Campus Helpline (24/7)"}},
				Message:   "If you are in immediate danger call emergency services first.",
			}, nil
		},
	}, &mockAppointmentService{})

	body := `{"counsellor_id":"c1","start_at":"2025-01-06T09:00:00Z","mode":"HELPLINE"}`
	rec := serve(router, http.MethodPost, "/api/v1/bookings", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Campus Helpline") {
		t.Errorf("expected helplines in body: %s", rec.Body.String())
	}
}

func TestBook_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{"counsellor_id":`, wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "unknown field", body: `{"counsellor":"c1"}`, wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "validation", body: `{"counsellor_id":"c1"}`, serviceErr: apperrors.Validation("Booking validation failed", map[string]any{"mode": "mode is required"}), wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeValidation},
		{name: "slot locked", body: `{"counsellor_id":"c1"}`, serviceErr: apperrors.SlotLocked("busy"), wantStatus: http.StatusConflict, wantCode: apperrors.CodeSlotLocked},
		{name: "slot taken", body: `{"counsellor_id":"c1"}`, serviceErr: apperrors.SlotTaken("Slot already booked"), wantStatus: http.StatusConflict, wantCode: apperrors.CodeSlotTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := newTestRouter(&mockAvailabilityService{}, &mockBookingService{
				bookFunc: func(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
					called = true
					return nil, tt.serviceErr
				},
			}, &mockAppointmentService{})

			rec := serve(router, http.MethodPost, "/api/v1/bookings", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp httputil.ErrorResponse
			_ = json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if tt.serviceErr == nil && called {
				t.Error("service should not be called for undecodable bodies")
			}
		})
	}
}

func TestBook_IdempotentRetry(t *testing.T) {
	calls := 0
	h := NewBookingHandler(&mockAvailabilityService{}, &mockBookingService{
		bookFunc: func(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
			calls++
			if calls > 1 {
				return nil, apperrors.SlotTaken("Slot already booked")
			}
			return &model.BookingResult{AppointmentID: "a1"}, nil
		},
	}, &mockAppointmentService{}, logger.Discard())

	store := middleware.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()
	h.WithIdempotency(middleware.Idempotency(store, "", logger.Discard()))

	router := httprouter.New()
	h.RegisterRoutes(router)

	body := `{"counsellor_id":"c1","start_at":"2025-01-06T09:00:00Z","mode":"VIDEO"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.DefaultIdempotencyHeader, "retry-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: status = %d", i+1, rec.Code)
		}
	}
	if calls != 1 {
		t.Errorf("service called %d times, want 1", calls)
	}
}

func TestGetAppointment(t *testing.T) {
	router := newTestRouter(&mockAvailabilityService{}, &mockBookingService{}, &mockAppointmentService{
		getFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			if id != "a1" {
				return nil, apperrors.NotFoundWithID("Appointment", id)
			}
			return &model.Appointment{ID: "a1", CounsellorID: "c1", Mode: config.ModeVideo, Status: config.StatusScheduled}, nil
		},
	})

	rec := serve(router, http.MethodGet, "/api/v1/appointments/a1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"counsellor_id":"c1"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/api/v1/appointments/zzz", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListAppointments(t *testing.T) {
	var gotFrom, gotTo time.Time
	router := newTestRouter(&mockAvailabilityService{}, &mockBookingService{}, &mockAppointmentService{
		listFunc: func(ctx context.Context, counsellorID string, from, to time.Time) ([]*model.Appointment, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	})

	rec := serve(router, http.MethodGet, "/api/v1/counsellors/c1/appointments?from=2025-01-06T00:00:00Z&to=2025-01-13T00:00:00Z", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !gotFrom.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) || !gotTo.Equal(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range = %v - %v", gotFrom, gotTo)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/api/v1/counsellors/c1/appointments?from=monday", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = serve(router, http.MethodGet, "/api/v1/counsellors/c1/appointments", "")
	if rec.Code != http.StatusOK || !gotFrom.IsZero() || !gotTo.IsZero() {
		t.Errorf("missing bounds should pass zero times, got %v - %v", gotFrom, gotTo)
	}
}
