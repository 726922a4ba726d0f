package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "Counsellor not found",
			},
			expected: "NOT_FOUND: Counsellor not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("redis: connection refused"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: redis: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_StatusCodeDefaultsToInternal(t *testing.T) {
	err := &AppError{Code: CodeInternal}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusInternalServerError)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFoundWithID("Counsellor", "c1"), CodeNotFound, http.StatusNotFound},
		{"slot locked", SlotLocked("busy"), CodeSlotLocked, http.StatusConflict},
		{"slot taken", SlotTaken("taken"), CodeSlotTaken, http.StatusConflict},
		{"internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Redis"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Counsellor", "12345")

	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Counsellor" {
		t.Errorf("expected resource 'Counsellor', got %v", err.Details["resource"])
	}
	if err.Message != "Counsellor not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestTransient(t *testing.T) {
	if !SlotLocked("busy").Transient() {
		t.Error("SLOT_LOCKED should be transient")
	}
	if SlotTaken("taken").Transient() {
		t.Error("SLOT_TAKEN should not be transient")
	}
	if Validation("bad", nil).Transient() {
		t.Error("VALIDATION_ERROR should not be transient")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := SlotTaken("taken")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("booking: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should unwrap wrapped AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", SlotLocked("busy"))

	if !HasCode(err, CodeSlotLocked) {
		t.Error("HasCode should find SLOT_LOCKED through wrapping")
	}
	if HasCode(err, CodeSlotTaken) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("HasCode should be false for non-AppError")
	}
	if !IsAppError(err) {
		t.Error("IsAppError should see through wrapping")
	}
}
