package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/models"
)

const DefaultIPLocatorURL = "https://ipapi.co/json/"

// Locator finds an approximate position without the device's help
type Locator interface {
	Locate(ctx context.Context) (models.Coordinate, error)
	Name() string
}

// IPLocator looks up the caller's position from its public IP address
type IPLocator struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Locator = (*IPLocator)(nil)

// NewIPLocator creates an IP geolocation client; an empty url selects ipapi.co
func NewIPLocator(logger *zap.Logger, url string, timeout time.Duration) *IPLocator {
	if url == "" {
		url = DefaultIPLocatorURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPLocator{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name returns the locator name
func (l *IPLocator) Name() string {
	return "ipapi"
}

// ipLookupResponse holds the fields we need from the lookup; pointers detect absent values
type ipLookupResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// Locate performs a single lookup
func (l *IPLocator) Locate(ctx context.Context) (models.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, fmt.Errorf("API returned non-200 status: %d", resp.StatusCode)
	}

	var lookup ipLookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to parse API response: %w", err)
	}
	if lookup.Error {
		return models.Coordinate{}, fmt.Errorf("lookup rejected: %s", lookup.Reason)
	}
	if lookup.Latitude == nil || lookup.Longitude == nil {
		return models.Coordinate{}, fmt.Errorf("response is missing latitude or longitude")
	}

	l.logger.Debug("resolved position from IP address",
		zap.String("city", lookup.City),
		zap.Float64("lat", *lookup.Latitude),
		zap.Float64("lon", *lookup.Longitude))

	return models.Coordinate{Latitude: *lookup.Latitude, Longitude: *lookup.Longitude}, nil
}
