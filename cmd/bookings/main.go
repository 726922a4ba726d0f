package main

import (
	"context"
	"counsel/internal/bookings/calendar"
	"counsel/internal/bookings/handler"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/repository"
	"counsel/internal/bookings/service"
	"counsel/internal/bookings/validator"
	"counsel/internal/bootstrap"
	"counsel/pkg/app"
	"counsel/pkg/config"
	"counsel/pkg/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	bookingHandler, healthHandler := initHandlers(cfg, serverApp)
	serverApp.SetApp(bookingHandler, healthHandler)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application) (*handler.BookingHandler, *handler.HealthHandler) {
	store, err := bootstrap.LockStore(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize lock store", "error", err)
	}

	notifier, closeNotifier, err := bootstrap.Notifier(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notifier", "error", err)
	}
	serverApp.OnShutdown(closeNotifier)

	directory, err := bootstrap.Helplines(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to load helplines", "error", err)
	}

	counsellorRepo := repository.NewMongoCounsellorRepository(cfg)
	appointmentRepo := repository.NewMongoAppointmentRepository(cfg)

	bookingService := service.NewBookingService(service.BookingDeps{
		Counsellors:  counsellorRepo,
		Appointments: appointmentRepo,
		Locker:       lock.NewSlotLocker(store, cfg.LockTTL, cfg.Log),
		Validator:    validator.NewBookingValidator(cfg.Log),
		Invites:      calendar.NewBuilder(cfg.CalendarOrganizerEmail, cfg.CalendarOrganizerName),
		Notifier:     notifier,
		Helplines:    directory,
	}, cfg)

	bookingHandler := handler.NewBookingHandler(
		service.NewAvailabilityService(counsellorRepo, appointmentRepo, cfg),
		bookingService,
		service.NewAppointmentService(counsellorRepo, appointmentRepo, cfg),
		cfg.Log,
	).WithIdempotency(middleware.Idempotency(idempotencyStore(cfg, serverApp), middleware.DefaultIdempotencyHeader, cfg.Log))

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"lock_backend", cfg.LockBackend,
		"notifications_backend", cfg.NotificationsBackend,
	)
	return bookingHandler, handler.NewHealthHandler(readinessChecks(cfg), cfg.Log)
}

// idempotencyStore shares replays across replicas when Redis is connected.
func idempotencyStore(cfg *config.Config, serverApp *app.Application) middleware.IdempotencyStore {
	if cfg.Client.Redis != nil {
		return middleware.NewRedisIdempotencyStore(cfg.Client.Redis, cfg.IdempotencyTTL)
	}
	store := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	serverApp.OnShutdown(store.Stop)
	return store
}

func readinessChecks(cfg *config.Config) map[string]handler.Check {
	checks := map[string]handler.Check{
		"mongo": func(ctx context.Context) error {
			return cfg.Client.Mongo.Ping(ctx, nil)
		},
	}
	if cfg.Client.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cfg.Client.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
