package models

import (
	"time"
)

// Condition is the short weather description supplied by the weather service
type Condition struct {
	Text string `json:"text"` // e.g. "Patchy rain possible"
	Icon string `json:"icon"` // icon URL
	Code int    `json:"code"` // numeric condition code
}

// Location describes where a forecast applies
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeZone  string  `json:"timeZone"`  // IANA zone, e.g. "Asia/Tokyo"
	LocalTime string  `json:"localTime"` // "2006-01-02 15:04" in TimeZone
}

// Current holds the conditions observed right now
type Current struct {
	TempC      float64   `json:"tempC"`
	TempF      float64   `json:"tempF"`
	FeelsLikeC float64   `json:"feelsLikeC"`
	FeelsLikeF float64   `json:"feelsLikeF"`
	Condition  Condition `json:"condition"`
	WindKph    float64   `json:"windKph"`
	WindDegree int       `json:"windDegree"`
	WindDir    string    `json:"windDir"`    // compass point, e.g. "NNW"
	PressureMb float64   `json:"pressureMb"` // in hPa
	PrecipMm   float64   `json:"precipMm"`
	Humidity   int       `json:"humidity"` // percentage
	Cloud      int       `json:"cloud"`    // cloud cover percentage
	UV         float64   `json:"uv"`
}

// DailyForecast is the summary for one forecast day
type DailyForecast struct {
	Date         string    `json:"date"` // "2006-01-02"
	DateEpoch    int64     `json:"dateEpoch"`
	MaxTempC     float64   `json:"maxTempC"`
	MaxTempF     float64   `json:"maxTempF"`
	MinTempC     float64   `json:"minTempC"`
	MinTempF     float64   `json:"minTempF"`
	AvgTempC     float64   `json:"avgTempC"`
	AvgTempF     float64   `json:"avgTempF"`
	Condition    Condition `json:"condition"`
	ChanceOfRain int       `json:"chanceOfRain"` // percentage
	ChanceOfSnow int       `json:"chanceOfSnow"` // percentage
	UV           float64   `json:"uv"`
	Sunrise      string    `json:"sunrise"` // "06:12 AM", local time
	Sunset       string    `json:"sunset"`
}

// Alert is a weather warning issued for the forecast area
type Alert struct {
	Headline    string `json:"headline"`
	Severity    string `json:"severity"`
	Event       string `json:"event"`
	Areas       string `json:"areas"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
	Description string `json:"description"`
}

// ForecastSnapshot is the result of a single forecast fetch.
// Days is chronological and Days[0] is today.
type ForecastSnapshot struct {
	Provider  string          `json:"provider"`
	Location  Location        `json:"location"`
	Current   Current         `json:"current"`
	Days      []DailyForecast `json:"days"`
	Alerts    []Alert         `json:"alerts,omitempty"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Today returns the first forecast day, if any
func (s ForecastSnapshot) Today() (DailyForecast, bool) {
	if len(s.Days) == 0 {
		return DailyForecast{}, false
	}
	return s.Days[0], true
}
