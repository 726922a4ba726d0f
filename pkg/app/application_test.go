package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"counsel/pkg/config"
	"counsel/pkg/contracts"
	"counsel/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:            config.DefaultPort,
		RequestTimeout:  time.Second,
		MaxRequestSize:  config.DefaultMaxRequestSize,
		ReadTimeout:     config.DefaultReadTimeout,
		WriteTimeout:    config.DefaultWriteTimeout,
		IdleTimeout:     config.DefaultIdleTimeout,
		ShutdownTimeout: config.DefaultShutdownTimeout,
		Log:             logger.Discard(),
	}
}

func newTestApp() *Application {
	a := NewApplication(testConfig())
	a.SetApp(
		contracts.RoutesFunc(func(r *httprouter.Router) {
			r.POST("/api/v1/bookings", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				w.WriteHeader(http.StatusCreated)
			})
			r.GET("/api/v1/panic", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				panic("boom")
			})
		}),
		contracts.RoutesFunc(func(r *httprouter.Router) {
			r.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				w.WriteHeader(http.StatusOK)
			})
		}),
	)
	return a
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp()

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		wantStatus  int
	}{
		{name: "health", method: http.MethodGet, target: "/health", wantStatus: http.StatusOK},
		{name: "json booking", method: http.MethodPost, target: "/api/v1/bookings", contentType: "application/json", wantStatus: http.StatusCreated},
		{name: "booking without json", method: http.MethodPost, target: "/api/v1/bookings", contentType: "text/plain", wantStatus: http.StatusUnsupportedMediaType},
		{name: "panic is recovered", method: http.MethodGet, target: "/api/v1/panic", wantStatus: http.StatusInternalServerError},
		{name: "unknown route", method: http.MethodGet, target: "/api/v1/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			a.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("expected a request id header")
			}
		})
	}
}

func TestApplication_ShutdownHooksRunInReverse(t *testing.T) {
	a := newTestApp()

	var order []int
	a.OnShutdown(func() { order = append(order, 1) })
	a.OnShutdown(func() { order = append(order, 2) })
	a.gracefulShutdown()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("hooks ran in order %v", order)
	}
}
