package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"counsel/pkg/config"
	"counsel/pkg/contracts"
	"counsel/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	cfg        *config.Config
	server     *http.Server
	handler    http.Handler
	onShutdown []func()
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp mounts /health and /ready behind recovery and logging only, and
// every other route behind the full middleware stack.
func (a *Application) SetApp(appHandler contracts.Handler, healthHandler contracts.Handler) {
	mux := http.NewServeMux()
	health := a.healthStack(healthHandler)
	mux.Handle("/health", health)
	mux.Handle("/ready", health)
	mux.Handle("/", a.appStack(appHandler))
	a.handler = mux

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler exposes the composed handler for tests.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// OnShutdown registers fn to run after the server has stopped.
func (a *Application) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *Application) healthStack(healthHandler contracts.Handler) http.Handler {
	router := httprouter.New()
	healthHandler.RegisterRoutes(router)

	var h http.Handler = router
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	return h
}

func (a *Application) appStack(appHandler contracts.Handler) http.Handler {
	router := httprouter.New()
	appHandler.RegisterRoutes(router)

	var h http.Handler = router
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	return h
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	for i := len(a.onShutdown) - 1; i >= 0; i-- {
		a.onShutdown[i]()
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
