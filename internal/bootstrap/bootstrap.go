// Package bootstrap builds the infrastructure shared by the counselling
// binaries from configuration.
package bootstrap

import (
	"counsel/internal/bookings/helplines"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/notify"
	"counsel/pkg/config"
	"counsel/pkg/kafka"
	"fmt"

	kafka_config "counsel/pkg/kafka/config"
	kafka_middleware "counsel/pkg/kafka/middleware"
)

// LockStore returns the lock backend selected by LOCK_BACKEND, connecting
// to Redis or MongoDB when needed.
func LockStore(cfg *config.Config) (lock.Store, error) {
	switch cfg.LockBackend {
	case config.LockBackendRedis:
		if cfg.Client.Redis == nil {
			cfg.SetRedis()
		}
		return lock.NewRedisStore(cfg.Client.Redis), nil
	case config.LockBackendMongo:
		if cfg.Client.Mongo == nil {
			cfg.SetMongo()
		}
		return lock.NewMongoStore(cfg.Client.Mongo.Database(cfg.MongoDatabaseName)), nil
	case config.LockBackendMemory:
		cfg.Log.Warn("Using in-process lock store; bookings are only serialized within this replica")
		return lock.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.LockBackend)
	}
}

// Notifier returns the delivery backend selected by NOTIFICATIONS_BACKEND
// and a close func to run on shutdown.
func Notifier(cfg *config.Config, source string) (notify.Notifier, func(), error) {
	switch cfg.NotificationsBackend {
	case config.NotificationsBackendKafka:
		producer, err := kafka.NewProducer(
			kafka_config.Load(cfg.Log),
			cfg.NotificationsTopic,
			cfg.NotificationsDLQTopic,
			cfg.Log,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create notifications producer: %w", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

		closeFn := func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close notifications producer", "error", err)
			}
		}
		return notify.NewKafkaNotifier(producer, source), closeFn, nil
	case config.NotificationsBackendLog:
		return notify.NewLogNotifier(cfg.Log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifications backend %q", cfg.NotificationsBackend)
	}
}

// Helplines loads HELPLINES_FILE, or the built-in directory when unset.
func Helplines(cfg *config.Config) (*helplines.Directory, error) {
	if cfg.HelplinesFile == "" {
		return helplines.Default(), nil
	}
	dir, err := helplines.Load(cfg.HelplinesFile)
	if err != nil {
		return nil, err
	}
	cfg.Log.Info("Loaded helpline directory", "file", cfg.HelplinesFile, "entries", len(dir.List()))
	return dir, nil
}
