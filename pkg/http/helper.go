package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"counsel/pkg/config"
	apperrors "counsel/pkg/errors"
)

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.New("PAYLOAD_TOO_LARGE", fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body cannot be empty")
		default:
			return apperrors.InvalidInput("Invalid request body: " + err.Error())
		}
	}

	if dec.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}

// QueryDate parses a YYYY-MM-DD query parameter as a UTC day. A missing
// parameter yields fallback.
func QueryDate(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(config.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s (expected YYYY-MM-DD)", key, s))
	}
	return t, nil
}

// QueryTime parses an RFC3339 query parameter. A missing parameter yields the
// zero time.
func QueryTime(r *http.Request, key string) (time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s (expected RFC3339)", key, s))
	}
	return t.UTC(), nil
}
