package model

import (
	"counsel/pkg/config"
	"time"
)

type BookingRequest struct {
	CounsellorID string                 `json:"counsellor_id" validate:"required,max=64"`
	StartAt      time.Time              `json:"start_at" validate:"required"`
	Mode         config.AppointmentMode `json:"mode" validate:"required,oneof=VIDEO OFFLINE HELPLINE"`
	StudentID    string                 `json:"student_id,omitempty" validate:"omitempty,max=64"`
	SessionToken string                 `json:"session_token,omitempty" validate:"omitempty,max=256"`
	StudentEmail string                 `json:"student_email,omitempty" validate:"omitempty,email,max=254"`
	Note         string                 `json:"note,omitempty" validate:"omitempty,max=2000"`
}

type BookingResult struct {
	AppointmentID string     `json:"appointment_id,omitempty"`
	MeetingLink   string     `json:"meeting_link,omitempty"`
	ICSLink       string     `json:"ics_link,omitempty"`
	Location      string     `json:"location,omitempty"`
	Helplines     []Helpline `json:"helplines,omitempty"`
	Message       string     `json:"message,omitempty"`
}

type Helpline struct {
	Country string `json:"country" yaml:"country"`
	Number  string `json:"number" yaml:"number"`
	Label   string `json:"label" yaml:"label"`
}

type Slot struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	IsFree bool      `json:"is_free"`
}
