package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "counsel"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisDB          = 0
	DefaultRedisDialTimeout = 5 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultIdempotencyTTL = 24 * time.Hour

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLockBackend = LockBackendRedis
	DefaultLockTTL     = 30 * time.Second

	DefaultMeetingBaseURL        = "https://meet.jit.si/"
	DefaultOfficeLocation        = "Campus Counselling Center"
	DefaultSessionDurationMin    = 30
	DefaultAppointmentsRangeDays = 7

	DefaultNotificationsBackend  = NotificationsBackendLog
	DefaultNotificationsTopic    = "notifications.email"
	DefaultNotificationsDLQTopic = "notifications.email.dlq"

	DefaultCalendarOrganizerEmail = "no-reply@counsel.local"
	DefaultCalendarOrganizerName  = "Campus Counselling"

	DefaultReminderCron      = "*/5 * * * *"
	DefaultReminderLeadTime  = 1 * time.Hour
	DefaultReminderBatchSize = 100
)
