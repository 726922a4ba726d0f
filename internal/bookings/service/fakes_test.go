package service

import (
	"context"
	"counsel/internal/bookings/calendar"
	bookingserrors "counsel/internal/bookings/errors"
	"counsel/internal/bookings/helplines"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/validator"
	"counsel/pkg/config"
	"counsel/pkg/logger"
	"counsel/pkg/model"
	"fmt"
	"sync"
	"time"
)

type fakeCounsellorRepo struct {
	counsellors map[string]*model.Counsellor
	findErr     error
}

func (r *fakeCounsellorRepo) FindByID(ctx context.Context, id string) (*model.Counsellor, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.counsellors[id]
	if !ok {
		return nil, bookingserrors.ErrCounsellorNotFound
	}
	copied := *c
	return &copied, nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*model.Appointment
	seq          int

	createErr error
	listErr   error
	updateErr error
	// listDelay widens the window between the re-check and the insert.
	listDelay time.Duration
	onList    func()
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.ID = fmt.Sprintf("%024x", r.seq)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	r.appointments = append(r.appointments, &stored)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(id) != 24 {
		return nil, bookingserrors.ErrInvalidID
	}
	for _, a := range r.appointments {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, bookingserrors.ErrAppointmentNotFound
}

func (r *fakeAppointmentRepo) List(ctx context.Context, counsellorID string, f model.AppointmentFilter) ([]*model.Appointment, error) {
	if r.onList != nil {
		r.onList()
	}
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.listDelay > 0 {
		time.Sleep(r.listDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.CounsellorID != counsellorID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if !f.RangeEnd.IsZero() && !a.StartAt.Before(f.RangeEnd) {
			continue
		}
		if !f.RangeStart.IsZero() && !a.EndAt.After(f.RangeStart) {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.Status == config.StatusScheduled && !a.StartAt.Before(from) && a.StartAt.Before(to) && a.ReminderSentAt == nil {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, id string, p model.AppointmentPatch) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID != id {
			continue
		}
		if p.ICSLink != nil {
			a.ICSLink = *p.ICSLink
		}
		if p.Status != nil {
			a.Status = *p.Status
		}
		if p.ReminderSentAt != nil {
			sent := *p.ReminderSentAt
			a.ReminderSentAt = &sent
		}
		return nil
	}
	return bookingserrors.ErrAppointmentNotFound
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}

func (r *fakeAppointmentRepo) stored(i int) model.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.appointments[i]
}

type sentMessage struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func (n *fakeNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.to)
	}
	return out
}

const testCounsellorID = "6650f1c2a1b2c3d4e5f60718"

// monday is 2025-01-06, a Monday.
var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		LockTTL:                   config.DefaultLockTTL,
		MeetingBaseURL:            config.DefaultMeetingBaseURL,
		DefaultOfficeLocation:     config.DefaultOfficeLocation,
		DefaultSessionDurationMin: config.DefaultSessionDurationMin,
		AppointmentsRangeDays:     config.DefaultAppointmentsRangeDays,
		CalendarOrganizerEmail:    config.DefaultCalendarOrganizerEmail,
		CalendarOrganizerName:     config.DefaultCalendarOrganizerName,
		Log:                       logger.Discard(),
	}
}

func testCounsellor() *model.Counsellor {
	return &model.Counsellor{
		ID:                 testCounsellorID,
		UserID:             "user-1",
		DisplayName:        "Dr. Rao",
		ContactEmail:       "rao@example.edu",
		DefaultDurationMin: 30,
		Availability: []model.AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "10:00"},
		},
	}
}

type harness struct {
	counsellors  *fakeCounsellorRepo
	appointments *fakeAppointmentRepo
	notifier     *fakeNotifier
	store        *lock.MemoryStore
	cfg          *config.Config
	booking      *bookingService
	availability AvailabilityService
	reads        *appointmentService
}

func newHarness(counsellors ...*model.Counsellor) *harness {
	if len(counsellors) == 0 {
		counsellors = []*model.Counsellor{testCounsellor()}
	}
	h := &harness{
		counsellors:  &fakeCounsellorRepo{counsellors: map[string]*model.Counsellor{}},
		appointments: &fakeAppointmentRepo{},
		notifier:     &fakeNotifier{},
		store:        lock.NewMemoryStore(),
		cfg:          testConfig(),
	}
	for _, c := range counsellors {
		h.counsellors.counsellors[c.ID] = c
	}

	h.booking = NewBookingService(BookingDeps{
		Counsellors:  h.counsellors,
		Appointments: h.appointments,
		Locker:       lock.NewSlotLocker(h.store, h.cfg.LockTTL, h.cfg.Log),
		Validator:    validator.NewBookingValidator(h.cfg.Log),
		Invites:      calendar.NewBuilder(h.cfg.CalendarOrganizerEmail, h.cfg.CalendarOrganizerName),
		Notifier:     h.notifier,
		Helplines:    helplines.Default(),
	}, h.cfg).(*bookingService)
	h.booking.now = func() time.Time { return time.UnixMilli(1736150400000) }

	h.availability = NewAvailabilityService(h.counsellors, h.appointments, h.cfg)
	h.reads = NewAppointmentService(h.counsellors, h.appointments, h.cfg).(*appointmentService)
	h.reads.now = func() time.Time { return monday.Add(8 * time.Hour) }
	return h
}

func (h *harness) seed(start time.Time, d time.Duration, status config.AppointmentStatus) {
	a := &model.Appointment{
		CounsellorID: testCounsellorID,
		Mode:         config.ModeVideo,
		StartAt:      start,
		EndAt:        start.Add(d),
		Status:       status,
	}
	_ = h.appointments.Create(context.Background(), a)
}

func videoRequest(start time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		CounsellorID: testCounsellorID,
		StartAt:      start,
		Mode:         config.ModeVideo,
		StudentID:    "student-1",
		StudentEmail: "student@example.edu",
	}
}
