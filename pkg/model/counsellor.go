package model

type Counsellor struct {
	ID                 string               `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string               `json:"user_id" bson:"user_id"`
	DisplayName        string               `json:"display_name" bson:"display_name"`
	ContactEmail       string               `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	DefaultDurationMin int                  `json:"default_duration_min" bson:"default_duration_min"`
	OfficeLocation     string               `json:"office_location,omitempty" bson:"office_location,omitempty"`
	Availability       []AvailabilityWindow `json:"availability" bson:"availability"`
}

// AvailabilityWindow is a recurring weekly interval. Weekday follows
// time.Weekday (0 = Sunday) and times are "HH:MM" in UTC.
type AvailabilityWindow struct {
	Weekday   int    `json:"weekday" bson:"weekday"`
	StartTime string `json:"start_time" bson:"start_time"`
	EndTime   string `json:"end_time" bson:"end_time"`
}
