package datasource

import (
	"context"

	"weather-dashboard/models"
)

// ForecastSource defines the interface for services that can fetch a forecast snapshot
type ForecastSource interface {
	// FetchForecast fetches current conditions plus the daily forecast for a coordinate.
	// A nil coordinate fails with "No location available" without contacting the service.
	FetchForecast(ctx context.Context, coord *models.Coordinate, credential string) (models.ForecastSnapshot, error)

	// Name returns the source's name
	Name() string
}
