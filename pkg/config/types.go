package config

type AppointmentMode string

const (
	ModeVideo    AppointmentMode = "VIDEO"
	ModeOffline  AppointmentMode = "OFFLINE"
	ModeHelpline AppointmentMode = "HELPLINE"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

const (
	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
	LockBackendMongo  = "mongo"

	NotificationsBackendKafka = "kafka"
	NotificationsBackendLog   = "log"
)

// DateLayout is the wire format of calendar days in query strings.
const DateLayout = "2006-01-02"
