package dashboard

import (
	"time"

	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/location"
	"weather-dashboard/models"
)

// NewFromConfig wires the resolver and forecast source described by config.
// When rateLimit is set and the config carries a rate, the forecast source is
// wrapped in a limiter.
func NewFromConfig(logger *zap.Logger, config *datasource.Config, rateLimit bool) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}

	var device location.Device
	if config.Device.Enabled {
		var position *models.Coordinate
		if config.Device.Latitude != nil && config.Device.Longitude != nil {
			position = &models.Coordinate{Latitude: *config.Device.Latitude, Longitude: *config.Device.Longitude}
		}
		device = location.NewStaticDevice(position)
	}

	ipLocator := location.NewIPLocator(logger.Named("ipgeo"), config.IPGeolocation.URL, time.Duration(config.IPGeolocation.Timeout))
	resolver := location.NewResolver(logger.Named("location"), device, ipLocator)
	opts := location.DefaultPositionOptions
	if config.Device.Timeout > 0 {
		opts.Timeout = time.Duration(config.Device.Timeout)
	}
	resolver.SetPositionOptions(opts)

	var source datasource.ForecastSource = datasource.NewWeatherAPIClient(
		logger.Named("weatherapi"), config.WeatherAPI.BaseURL, time.Duration(config.WeatherAPI.Timeout))
	if rateLimit && config.WeatherAPI.RateLimit > 0 {
		source = datasource.NewRateLimitedForecastSource(source, config.WeatherAPI.RateLimit, max(config.WeatherAPI.Burst, 1))
		logger.Info("applied rate limiting to forecast source", zap.String("source", source.Name()))
	}

	return New(logger.Named("dashboard"), resolver, source, config.WeatherAPI.APIKey)
}
