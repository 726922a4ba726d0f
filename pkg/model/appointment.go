package model

import (
	"counsel/pkg/config"
	"time"
)

type Appointment struct {
	ID             string                   `json:"id,omitempty" bson:"_id,omitempty"`
	CounsellorID   string                   `json:"counsellor_id" bson:"counsellor_id"`
	StudentID      string                   `json:"student_id,omitempty" bson:"student_id,omitempty"`
	SessionToken   string                   `json:"session_token,omitempty" bson:"session_token,omitempty"`
	StudentEmail   string                   `json:"student_email,omitempty" bson:"student_email,omitempty"`
	Mode           config.AppointmentMode   `json:"mode" bson:"mode"`
	StartAt        time.Time                `json:"start_at" bson:"start_at"`
	EndAt          time.Time                `json:"end_at" bson:"end_at"`
	Status         config.AppointmentStatus `json:"status" bson:"status"`
	MeetingLink    string                   `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`
	Location       string                   `json:"location,omitempty" bson:"-"`
	ICSLink        string                   `json:"ics_link,omitempty" bson:"ics_link,omitempty"`
	Note           string                   `json:"note,omitempty" bson:"note,omitempty"`
	ReminderSentAt *time.Time               `json:"reminder_sent_at,omitempty" bson:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at" bson:"updated_at"`
}

// AppointmentFilter narrows appointment reads. Zero values are ignored. The
// range matches appointments overlapping [RangeStart, RangeEnd).
type AppointmentFilter struct {
	Status     config.AppointmentStatus
	RangeStart time.Time
	RangeEnd   time.Time
	Limit      int
}

// AppointmentPatch carries the fields that may change after creation. Nil
// pointers are left untouched.
type AppointmentPatch struct {
	ICSLink        *string
	Status         *config.AppointmentStatus
	ReminderSentAt *time.Time
}
