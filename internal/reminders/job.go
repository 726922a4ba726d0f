package reminders

import (
	"context"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/notify"
	"counsel/internal/bookings/repository"
	"counsel/pkg/config"
	"counsel/pkg/model"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Job sends one reminder per upcoming appointment. Replicas coordinate through
// a per-appointment lock and the stored ReminderSentAt marker.
type Job struct {
	appointments repository.AppointmentRepository
	counsellors  repository.CounsellorRepository
	locker       *lock.SlotLocker
	notifier     notify.Notifier
	cfg          *config.Config
	now          func() time.Time
}

func NewJob(
	appointments repository.AppointmentRepository,
	counsellors repository.CounsellorRepository,
	locker *lock.SlotLocker,
	notifier notify.Notifier,
	cfg *config.Config,
) *Job {
	return &Job{
		appointments: appointments,
		counsellors:  counsellors,
		locker:       locker,
		notifier:     notifier,
		cfg:          cfg,
		now:          time.Now,
	}
}

// RunOnce reminds every SCHEDULED appointment starting within the lead time
// that has not been reminded yet, and returns how many were marked sent.
// Per-appointment failures are logged and retried on the next run.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	from := j.now().UTC()
	to := from.Add(j.cfg.ReminderLeadTime)

	upcoming, err := j.appointments.ListUpcoming(ctx, from, to, j.cfg.ReminderBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}

	sent := 0
	for _, a := range upcoming {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		ok, err := j.remind(ctx, a.ID)
		if err != nil {
			j.cfg.Log.Warn("Failed to send reminder", "id", a.ID, "error", err)
			continue
		}
		if ok {
			sent++
		}
	}

	j.cfg.Log.Info("Reminder run finished",
		"window_start", from,
		"window_end", to,
		"candidates", len(upcoming),
		"sent", sent,
	)
	return sent, nil
}

// remind reports false without error when another replica owns or has
// already finished the appointment.
func (j *Job) remind(ctx context.Context, id string) (bool, error) {
	key := lock.ReminderKey(id)
	token, err := j.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			j.cfg.Log.Debug("Reminder is being sent by another worker", "id", id)
			return false, nil
		}
		return false, err
	}
	defer j.locker.Release(context.WithoutCancel(ctx), key, token)

	a, err := j.appointments.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if a.ReminderSentAt != nil || a.Status != config.StatusScheduled {
		return false, nil
	}

	counsellor, err := j.counsellors.FindByID(ctx, a.CounsellorID)
	if err != nil {
		j.cfg.Log.Warn("Failed to resolve counsellor for reminder", "id", id, "counsellor_id", a.CounsellorID, "error", err)
		counsellor = nil
	}

	if err := j.notify(ctx, counsellor, a); err != nil {
		return false, err
	}

	sentAt := j.now().UTC()
	if err := j.appointments.Update(ctx, id, model.AppointmentPatch{ReminderSentAt: &sentAt}); err != nil {
		return false, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	j.cfg.Log.Info("Reminder sent", "id", id, "start_at", a.StartAt)
	return true, nil
}

func (j *Job) notify(ctx context.Context, counsellor *model.Counsellor, a *model.Appointment) error {
	when := a.StartAt.UTC().Format(time.RFC3339)
	body := j.reminderBody(counsellor, a)

	var errs []error
	if a.StudentEmail != "" {
		if err := j.notifier.Send(ctx, a.StudentEmail, "Reminder: counselling session at "+when, body); err != nil {
			errs = append(errs, fmt.Errorf("student: %w", err))
		}
	}
	if counsellor != nil && counsellor.ContactEmail != "" {
		if err := j.notifier.Send(ctx, counsellor.ContactEmail, "Reminder: session at "+when, body); err != nil {
			errs = append(errs, fmt.Errorf("counsellor: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (j *Job) reminderBody(counsellor *model.Counsellor, a *model.Appointment) string {
	var b strings.Builder
	if counsellor != nil && counsellor.DisplayName != "" {
		fmt.Fprintf(&b, "Counsellor: %s\n", counsellor.DisplayName)
	}
	fmt.Fprintf(&b, "Mode: %s\n", a.Mode)
	fmt.Fprintf(&b, "Starts: %s\n", a.StartAt.UTC().Format(time.RFC3339))
	switch a.Mode {
	case config.ModeVideo:
		fmt.Fprintf(&b, "Join: %s\n", a.MeetingLink)
	case config.ModeOffline:
		location := ""
		if counsellor != nil {
			location = counsellor.OfficeLocation
		}
		if location == "" {
			location = j.cfg.DefaultOfficeLocation
		}
		fmt.Fprintf(&b, "Where: %s\n", location)
	}
	return b.String()
}
