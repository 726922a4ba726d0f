package main

import (
	"context"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/repository"
	"counsel/internal/bootstrap"
	"counsel/internal/reminders"
	"counsel/pkg/config"
	"os"
	"os/signal"
	"syscall"
)

const ServiceName = "reminders"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	store, err := bootstrap.LockStore(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize lock store", "error", err)
	}

	notifier, closeNotifier, err := bootstrap.Notifier(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notifier", "error", err)
	}
	defer closeNotifier()

	job := reminders.NewJob(
		repository.NewMongoAppointmentRepository(cfg),
		repository.NewMongoCounsellorRepository(cfg),
		lock.NewSlotLocker(store, cfg.LockTTL, cfg.Log),
		notifier,
		cfg,
	)

	scheduler, err := reminders.NewScheduler(job, cfg.ReminderCron, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create reminder scheduler", "error", err)
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	cfg.Log.Info("Shutting down reminder scheduler", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	scheduler.Stop(ctx)
}
