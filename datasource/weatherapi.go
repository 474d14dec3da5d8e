package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/models"
)

const (
	DefaultWeatherAPIBaseURL = "https://api.weatherapi.com"

	// ForecastDays is the forecast window requested from the service
	ForecastDays = 7
)

// WeatherAPIClient fetches forecasts from WeatherAPI.com
type WeatherAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure WeatherAPIClient implements ForecastSource
var _ ForecastSource = (*WeatherAPIClient)(nil)

// NewWeatherAPIClient creates a new WeatherAPI.com client.
// An empty baseURL selects the public endpoint; timeout bounds the whole request.
func NewWeatherAPIClient(logger *zap.Logger, baseURL string, timeout time.Duration) *WeatherAPIClient {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// NewWeatherAPIClientWithHTTPClient creates a client that sends requests through httpClient
func NewWeatherAPIClientWithHTTPClient(logger *zap.Logger, baseURL string, httpClient *http.Client) *WeatherAPIClient {
	c := NewWeatherAPIClient(logger, baseURL, 0)
	c.httpClient = httpClient
	return c
}

// Name returns the provider name
func (c *WeatherAPIClient) Name() string {
	return "WeatherAPI"
}

// weatherAPICondition mirrors the condition object used throughout the API
type weatherAPICondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// WeatherAPIForecastResponse represents the forecast.json response structure
type WeatherAPIForecastResponse struct {
	Location *struct {
		Name      string  `json:"name"`
		Region    string  `json:"region"`
		Country   string  `json:"country"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		TzID      string  `json:"tz_id"`
		LocalTime string  `json:"localtime"`
	} `json:"location"`
	Current *struct {
		TempC      float64             `json:"temp_c"`
		TempF      float64             `json:"temp_f"`
		FeelsLikeC float64             `json:"feelslike_c"`
		FeelsLikeF float64             `json:"feelslike_f"`
		Condition  weatherAPICondition `json:"condition"`
		WindKph    float64             `json:"wind_kph"`
		WindDegree int                 `json:"wind_degree"`
		WindDir    string              `json:"wind_dir"`
		PressureMb float64             `json:"pressure_mb"`
		PrecipMm   float64             `json:"precip_mm"`
		Humidity   int                 `json:"humidity"`
		Cloud      int                 `json:"cloud"`
		UV         float64             `json:"uv"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date      string `json:"date"`
			DateEpoch int64  `json:"date_epoch"`
			Day       struct {
				MaxTempC          float64             `json:"maxtemp_c"`
				MaxTempF          float64             `json:"maxtemp_f"`
				MinTempC          float64             `json:"mintemp_c"`
				MinTempF          float64             `json:"mintemp_f"`
				AvgTempC          float64             `json:"avgtemp_c"`
				AvgTempF          float64             `json:"avgtemp_f"`
				Condition         weatherAPICondition `json:"condition"`
				DailyChanceOfRain int                 `json:"daily_chance_of_rain"`
				DailyChanceOfSnow int                 `json:"daily_chance_of_snow"`
				UV                float64             `json:"uv"`
			} `json:"day"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Alerts struct {
		Alert []struct {
			Headline  string `json:"headline"`
			Severity  string `json:"severity"`
			Event     string `json:"event"`
			Areas     string `json:"areas"`
			Effective string `json:"effective"`
			Expires   string `json:"expires"`
			Desc      string `json:"desc"`
		} `json:"alert"`
	} `json:"alerts"`
}

// weatherAPIErrorResponse is the body returned alongside a non-2xx status
type weatherAPIErrorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchForecast gets current conditions and a 7-day forecast from WeatherAPI.com.
// Every failure is reported as a *FetchFailedError.
func (c *WeatherAPIClient) FetchForecast(ctx context.Context, coord *models.Coordinate, credential string) (models.ForecastSnapshot, error) {
	if coord == nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgNoLocation, 0, nil)
	}

	reqURL, err := c.buildURL(*coord, credential)
	if err != nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgUnexpectedError, 0, fmt.Errorf("failed to build URL: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgUnexpectedError, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting forecast",
		zap.String("provider", c.Name()),
		zap.Float64("lat", coord.Latitude),
		zap.Float64("lon", coord.Longitude))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgUnexpectedError, 0, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgUnexpectedError, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := MsgFetchFailed
		var apiErr weatherAPIErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		c.logger.Warn("forecast request rejected",
			zap.String("provider", c.Name()),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return models.ForecastSnapshot{}, fetchFailed(message, resp.StatusCode, fmt.Errorf("API returned status %d", resp.StatusCode))
	}

	var forecastResp WeatherAPIForecastResponse
	if err := json.Unmarshal(body, &forecastResp); err != nil {
		return models.ForecastSnapshot{}, fetchFailed(MsgUnexpectedError, resp.StatusCode, fmt.Errorf("failed to parse API response: %w", err))
	}
	if err := forecastResp.validate(); err != nil {
		c.logger.Warn("incomplete forecast response",
			zap.String("provider", c.Name()),
			zap.Error(err))
		return models.ForecastSnapshot{}, fetchFailed(MsgUnexpectedError, resp.StatusCode, fmt.Errorf("invalid API response: %w", err))
	}

	return c.toSnapshot(&forecastResp), nil
}

// validate rejects bodies that decode cleanly but lack the sections a snapshot is built from
func (r *WeatherAPIForecastResponse) validate() error {
	switch {
	case r.Location == nil:
		return errors.New("missing location")
	case r.Current == nil:
		return errors.New("missing current conditions")
	case len(r.Forecast.ForecastDay) == 0:
		return errors.New("missing forecast days")
	}
	return nil
}

// buildURL constructs the forecast.json URL with query parameters
func (c *WeatherAPIClient) buildURL(coord models.Coordinate, credential string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u.Path += "/v1/forecast.json"

	query := u.Query()
	query.Set("key", credential)
	query.Set("q", coord.String())
	query.Set("days", strconv.Itoa(ForecastDays))
	query.Set("alerts", "yes")
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// toSnapshot maps the wire response onto the domain model
func (c *WeatherAPIClient) toSnapshot(r *WeatherAPIForecastResponse) models.ForecastSnapshot {
	snapshot := models.ForecastSnapshot{
		Provider: c.Name(),
		Location: models.Location{
			Name:      r.Location.Name,
			Region:    r.Location.Region,
			Country:   r.Location.Country,
			Latitude:  r.Location.Lat,
			Longitude: r.Location.Lon,
			TimeZone:  r.Location.TzID,
			LocalTime: r.Location.LocalTime,
		},
		Current: models.Current{
			TempC:      r.Current.TempC,
			TempF:      r.Current.TempF,
			FeelsLikeC: r.Current.FeelsLikeC,
			FeelsLikeF: r.Current.FeelsLikeF,
			Condition:  models.Condition(r.Current.Condition),
			WindKph:    r.Current.WindKph,
			WindDegree: r.Current.WindDegree,
			WindDir:    r.Current.WindDir,
			PressureMb: r.Current.PressureMb,
			PrecipMm:   r.Current.PrecipMm,
			Humidity:   r.Current.Humidity,
			Cloud:      r.Current.Cloud,
			UV:         r.Current.UV,
		},
		Days:      make([]models.DailyForecast, 0, len(r.Forecast.ForecastDay)),
		FetchedAt: time.Now(),
	}

	for _, day := range r.Forecast.ForecastDay {
		snapshot.Days = append(snapshot.Days, models.DailyForecast{
			Date:         day.Date,
			DateEpoch:    day.DateEpoch,
			MaxTempC:     day.Day.MaxTempC,
			MaxTempF:     day.Day.MaxTempF,
			MinTempC:     day.Day.MinTempC,
			MinTempF:     day.Day.MinTempF,
			AvgTempC:     day.Day.AvgTempC,
			AvgTempF:     day.Day.AvgTempF,
			Condition:    models.Condition(day.Day.Condition),
			ChanceOfRain: day.Day.DailyChanceOfRain,
			ChanceOfSnow: day.Day.DailyChanceOfSnow,
			UV:           day.Day.UV,
			Sunrise:      day.Astro.Sunrise,
			Sunset:       day.Astro.Sunset,
		})
	}

	for _, a := range r.Alerts.Alert {
		snapshot.Alerts = append(snapshot.Alerts, models.Alert{
			Headline:    a.Headline,
			Severity:    a.Severity,
			Event:       a.Event,
			Areas:       a.Areas,
			Effective:   a.Effective,
			Expires:     a.Expires,
			Description: a.Desc,
		})
	}

	return snapshot
}
