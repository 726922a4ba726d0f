package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvRedisDB          = "REDIS_DB"
	EnvRedisDialTimeout = "REDIS_DIAL_TIMEOUT"

	EnvPort         = "PORT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogAddSource = "LOG_ADD_SOURCE"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLockBackend = "LOCK_BACKEND"
	EnvLockTTL     = "LOCK_TTL"

	EnvMeetingBaseURL            = "MEETING_BASE_URL"
	EnvDefaultOfficeLocation     = "DEFAULT_OFFICE_LOCATION"
	EnvDefaultSessionDurationMin = "DEFAULT_SESSION_DURATION_MIN"
	EnvAppointmentsRangeDays     = "APPOINTMENTS_RANGE_DAYS"
	EnvHelplinesFile             = "HELPLINES_FILE"

	EnvNotificationsBackend  = "NOTIFICATIONS_BACKEND"
	EnvNotificationsTopic    = "NOTIFICATIONS_TOPIC"
	EnvNotificationsDLQTopic = "NOTIFICATIONS_DLQ_TOPIC"

	EnvCalendarOrganizerEmail = "CALENDAR_ORGANIZER_EMAIL"
	EnvCalendarOrganizerName  = "CALENDAR_ORGANIZER_NAME"

	EnvReminderCron      = "REMINDER_CRON"
	EnvReminderLeadTime  = "REMINDER_LEAD_TIME"
	EnvReminderBatchSize = "REMINDER_BATCH_SIZE"
)
