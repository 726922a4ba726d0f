package config

import (
	"counsel/pkg/client"
	"counsel/pkg/logger"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisDialTimeout time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int
	IdempotencyTTL time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	LockBackend string
	LockTTL     time.Duration

	MeetingBaseURL            string
	DefaultOfficeLocation     string
	DefaultSessionDurationMin int
	AppointmentsRangeDays     int
	HelplinesFile             string

	NotificationsBackend  string
	NotificationsTopic    string
	NotificationsDLQTopic string

	CalendarOrganizerEmail string
	CalendarOrganizerName  string

	ReminderCron      string
	ReminderLeadTime  time.Duration
	ReminderBatchSize int

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:        getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword:    getEnvStr(EnvRedisPassword, ""),
		RedisDB:          getEnvNum(EnvRedisDB, DefaultRedisDB),
		RedisDialTimeout: getEnvDuration(EnvRedisDialTimeout, DefaultRedisDialTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		LockBackend: strings.ToLower(getEnvStr(EnvLockBackend, DefaultLockBackend)),
		LockTTL:     getEnvDuration(EnvLockTTL, DefaultLockTTL),

		MeetingBaseURL:            getEnvStr(EnvMeetingBaseURL, DefaultMeetingBaseURL),
		DefaultOfficeLocation:     getEnvStr(EnvDefaultOfficeLocation, DefaultOfficeLocation),
		DefaultSessionDurationMin: getEnvNum(EnvDefaultSessionDurationMin, DefaultSessionDurationMin),
		AppointmentsRangeDays:     getEnvNum(EnvAppointmentsRangeDays, DefaultAppointmentsRangeDays),
		HelplinesFile:             getEnvStr(EnvHelplinesFile, ""),

		NotificationsBackend:  strings.ToLower(getEnvStr(EnvNotificationsBackend, DefaultNotificationsBackend)),
		NotificationsTopic:    getEnvStr(EnvNotificationsTopic, DefaultNotificationsTopic),
		NotificationsDLQTopic: getEnvStr(EnvNotificationsDLQTopic, DefaultNotificationsDLQTopic),

		CalendarOrganizerEmail: getEnvStr(EnvCalendarOrganizerEmail, DefaultCalendarOrganizerEmail),
		CalendarOrganizerName:  getEnvStr(EnvCalendarOrganizerName, DefaultCalendarOrganizerName),

		ReminderCron:      getEnvStr(EnvReminderCron, DefaultReminderCron),
		ReminderLeadTime:  getEnvDuration(EnvReminderLeadTime, DefaultReminderLeadTime),
		ReminderBatchSize: getEnvNum(EnvReminderBatchSize, DefaultReminderBatchSize),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: getEnvBool(EnvLogAddSource, true),
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, client.RedisOptions{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisDialTimeout,
	})
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	switch cfg.LockBackend {
	case LockBackendRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty when LockBackend is redis")
		}
		if cfg.RedisDialTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("RedisDialTimeout must be positive, got: %s", cfg.RedisDialTimeout))
		}
	case LockBackendMemory, LockBackendMongo:
	default:
		errors = append(errors, fmt.Sprintf("LockBackend must be one of [%s %s %s], got: %s", LockBackendRedis, LockBackendMemory, LockBackendMongo, cfg.LockBackend))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}
	if cfg.LockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("LockTTL must be positive, got: %s", cfg.LockTTL))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}

	if u, err := url.Parse(cfg.MeetingBaseURL); err != nil || u.Scheme != "https" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("MeetingBaseURL must be an absolute https URL, got: %s", cfg.MeetingBaseURL))
	}
	if cfg.DefaultOfficeLocation == "" {
		errors = append(errors, "DefaultOfficeLocation cannot be empty")
	}
	if cfg.DefaultSessionDurationMin <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultSessionDurationMin must be positive, got: %d", cfg.DefaultSessionDurationMin))
	}
	if cfg.AppointmentsRangeDays <= 0 {
		errors = append(errors, fmt.Sprintf("AppointmentsRangeDays must be positive, got: %d", cfg.AppointmentsRangeDays))
	}

	switch cfg.NotificationsBackend {
	case NotificationsBackendKafka:
		if cfg.NotificationsTopic == "" {
			errors = append(errors, "NotificationsTopic cannot be empty when NotificationsBackend is kafka")
		}
	case NotificationsBackendLog:
	default:
		errors = append(errors, fmt.Sprintf("NotificationsBackend must be one of [%s %s], got: %s", NotificationsBackendKafka, NotificationsBackendLog, cfg.NotificationsBackend))
	}

	if cfg.CalendarOrganizerEmail == "" {
		errors = append(errors, "CalendarOrganizerEmail cannot be empty")
	}

	if _, err := cron.ParseStandard(cfg.ReminderCron); err != nil {
		errors = append(errors, fmt.Sprintf("ReminderCron must be a valid cron expression, got: %s (%v)", cfg.ReminderCron, err))
	}
	if cfg.ReminderLeadTime <= 0 {
		errors = append(errors, fmt.Sprintf("ReminderLeadTime must be positive, got: %s", cfg.ReminderLeadTime))
	}
	if cfg.ReminderBatchSize <= 0 {
		errors = append(errors, fmt.Sprintf("ReminderBatchSize must be positive, got: %d", cfg.ReminderBatchSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"redis_db", cfg.RedisDB,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"lock_backend", cfg.LockBackend,
		"lock_ttl", cfg.LockTTL,
		"meeting_base_url", cfg.MeetingBaseURL,
		"default_office_location", cfg.DefaultOfficeLocation,
		"default_session_duration_min", cfg.DefaultSessionDurationMin,
		"appointments_range_days", cfg.AppointmentsRangeDays,
		"helplines_file", cfg.HelplinesFile,
		"notifications_backend", cfg.NotificationsBackend,
		"notifications_topic", cfg.NotificationsTopic,
		"reminder_cron", cfg.ReminderCron,
		"reminder_lead_time", cfg.ReminderLeadTime,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
