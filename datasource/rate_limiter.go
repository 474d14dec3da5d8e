package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weather-dashboard/models"
)

// RateLimitedForecastSource wraps a ForecastSource with rate limiting so that repeated
// dashboard sessions cannot exhaust the credential's request quota
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedForecastSource creates a new rate limited forecast source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchForecast fetches forecast data, respecting rate limits
func (r *RateLimitedForecastSource) FetchForecast(ctx context.Context, coord *models.Coordinate, credential string) (models.ForecastSnapshot, error) {
	// A missing coordinate never reaches the service, so it does not spend a token
	if coord == nil {
		return r.source.FetchForecast(ctx, coord, credential)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgFetchFailed, 0, fmt.Errorf("rate limit wait canceled: %w", err))
	}

	return r.source.FetchForecast(ctx, coord, credential)
}

// Name returns the source name
func (r *RateLimitedForecastSource) Name() string {
	return r.name
}

var _ ForecastSource = (*RateLimitedForecastSource)(nil)
