package apiclient

import (
	"context"
	"counsel/pkg/config"
	"counsel/pkg/model"
	"net/url"
	"time"
)

const (
	apiPrefix         = "/api/v1"
	idempotencyHeader = "Idempotency-Key"
)

// CounselClient is a typed client for the booking API.
type CounselClient struct {
	*HttpClient
}

func NewCounselClient(baseURL string) *CounselClient {
	return &CounselClient{HttpClient: NewHttpClient(baseURL)}
}

func (c *CounselClient) Availability(ctx context.Context, counsellorID string, date time.Time) ([]model.Slot, error) {
	path := apiPrefix + "/counsellors/" + url.PathEscape(counsellorID) + "/availability?date=" + date.UTC().Format(config.DateLayout)
	resp, err := c.GET(ctx, path)
	if err != nil {
		return nil, err
	}

	var slots []model.Slot
	if err := decodeData(resp, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Book submits req. A non-empty idempotencyKey makes retries replay the
// first response.
func (c *CounselClient) Book(ctx context.Context, req *model.BookingRequest, idempotencyKey string) (*model.BookingResult, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{idempotencyHeader: idempotencyKey}
	}

	resp, err := c.POST(ctx, apiPrefix+"/bookings", req, headers)
	if err != nil {
		return nil, err
	}

	var result model.BookingResult
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *CounselClient) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	resp, err := c.GET(ctx, apiPrefix+"/appointments/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var appointment model.Appointment
	if err := decodeData(resp, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListAppointments lists SCHEDULED appointments overlapping [from, to). Zero
// bounds use the server defaults.
func (c *CounselClient) ListAppointments(ctx context.Context, counsellorID string, from, to time.Time) ([]*model.Appointment, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("to", to.UTC().Format(time.RFC3339))
	}

	path := apiPrefix + "/counsellors/" + url.PathEscape(counsellorID) + "/appointments"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := c.GET(ctx, path)
	if err != nil {
		return nil, err
	}

	var appointments []*model.Appointment
	if err := decodeData(resp, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
