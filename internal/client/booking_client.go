// Package client talks to the external booking and auth services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/request"
	"seatmap-client/internal/dto/response"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

// APIError is a non-success response from an upstream service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

type BookingConfig struct {
	BaseURL        string
	SeatsPath      string
	SeatsLocksPath string
	EventsPath     string
	Timeout        time.Duration
}

// BookingClient handles communication with the booking service.
type BookingClient struct {
	cfg        BookingConfig
	httpClient *http.Client
	log        *zap.Logger
}

func NewBookingClient(cfg BookingConfig, log *zap.Logger) *BookingClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &BookingClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With(zap.String("client", "booking")),
	}
}

// FetchSeats returns the full roster of one (event, venue) pair.
func (bc *BookingClient) FetchSeats(ctx context.Context, eventID, venueID int64) ([]entity.Seat, error) {
	path, err := utils.ResolvePath(bc.cfg.SeatsPath, map[string]string{
		"eventid": strconv.FormatInt(eventID, 10),
		"venueid": strconv.FormatInt(venueID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seats: %w", err)
	}

	var body response.SeatsResponse
	if err := bc.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch seats: %w", err)
	}

	bc.log.Debug("Seats fetched",
		zap.Int64("event_id", eventID),
		zap.Int64("venue_id", venueID),
		zap.Int("count", len(body.Data)),
		zap.String("upstream_request_id", body.Metadata.RequestID),
	)

	return body.Data, nil
}

// FetchEvents returns the list of bookable events.
func (bc *BookingClient) FetchEvents(ctx context.Context) ([]entity.EventCard, error) {
	var body response.EventsResponse
	if err := bc.do(ctx, http.MethodGet, bc.cfg.EventsPath, nil, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	return body.Data, nil
}

// LockSeat asks the booking service to lock a seat for req.GuestID.
func (bc *BookingClient) LockSeat(ctx context.Context, req request.LockSeatRequest) error {
	if err := bc.do(ctx, http.MethodPost, bc.cfg.SeatsLocksPath, req, nil); err != nil {
		return fmt.Errorf("failed to lock seat %s%s: %w", req.RowNumber, req.SeatNumber, err)
	}
	return nil
}

// UnlockSeat releases a seat. The guest id is not sent.
func (bc *BookingClient) UnlockSeat(ctx context.Context, req request.UnlockSeatRequest) error {
	if err := bc.do(ctx, http.MethodDelete, bc.cfg.SeatsLocksPath, req, nil); err != nil {
		return fmt.Errorf("failed to unlock seat %s%s: %w", req.RowNumber, req.SeatNumber, err)
	}
	return nil
}

func (bc *BookingClient) do(ctx context.Context, method, path string, payload, out any) error {
	return doJSON(ctx, bc.httpClient, method, joinURL(bc.cfg.BaseURL, path), payload, out)
}

func doJSON(ctx context.Context, httpClient *http.Client, method, url string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID, ok := utils.GetRequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errResp response.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Message != "" {
		apiErr.Message = errResp.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	return apiErr
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
