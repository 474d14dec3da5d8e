package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads "5s" style strings from JSON and YAML
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	return d.set(s)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.set(value.Value)
}

func (d *Duration) set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config represents the application configuration
type Config struct {
	WeatherAPI struct {
		APIKey    string   `json:"apiKey" yaml:"apiKey"`
		BaseURL   string   `json:"baseURL" yaml:"baseURL"`
		Timeout   Duration `json:"timeout" yaml:"timeout"`     // bound on the forecast request
		RateLimit float64  `json:"rateLimit" yaml:"rateLimit"` // requests per second, 0 disables limiting
		Burst     int      `json:"burst" yaml:"burst"`
	} `json:"weatherAPI" yaml:"weatherAPI"`

	IPGeolocation struct {
		URL     string   `json:"url" yaml:"url"`
		Timeout Duration `json:"timeout" yaml:"timeout"`
	} `json:"ipGeolocation" yaml:"ipGeolocation"`

	// Device is the host's own position source. When disabled the host reports
	// no geolocation capability at all.
	Device struct {
		Enabled   bool     `json:"enabled" yaml:"enabled"`
		Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
		Timeout   Duration `json:"timeout" yaml:"timeout"`
	} `json:"device" yaml:"device"`

	Server struct {
		Port int `json:"port" yaml:"port"`
	} `json:"server" yaml:"server"`

	Log struct {
		Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
		Format string `json:"format" yaml:"format"` // text, json
	} `json:"log" yaml:"log"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.WeatherAPI.BaseURL = DefaultWeatherAPIBaseURL
	config.WeatherAPI.Timeout = Duration(10 * time.Second)
	// WeatherAPI free tier allows ~23 calls/minute = 0.4 calls per second
	config.WeatherAPI.RateLimit = 0.4
	config.WeatherAPI.Burst = 3
	config.IPGeolocation.URL = "https://ipapi.co/json/"
	config.IPGeolocation.Timeout = Duration(10 * time.Second)
	config.Device.Enabled = true
	config.Device.Timeout = Duration(5 * time.Second)
	config.Server.Port = 8080
	config.Log.Level = "info"
	config.Log.Format = "text"
	return config
}

// LoadConfig loads configuration from a JSON or YAML file (chosen by extension) on top of
// DefaultConfig, then applies environment overrides. A missing file is not an error.
// Variables from a .env file in the working directory are loaded first if present.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := DefaultConfig()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults plus environment
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		default:
			if err := decodeConfig(filename, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
			}
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeConfig(filename string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

// applyEnv overrides individual settings from environment variables
func applyEnv(config *Config) error {
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		config.WeatherAPI.APIKey = v
	}
	if v := os.Getenv("WEATHER_API_BASE_URL"); v != "" {
		config.WeatherAPI.BaseURL = v
	}
	if v := os.Getenv("IPGEO_URL"); v != "" {
		config.IPGeolocation.URL = v
	}
	if v := os.Getenv("DEVICE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEVICE_ENABLED %q: %w", v, err)
		}
		config.Device.Enabled = enabled
	}
	for _, o := range []struct {
		name string
		dst  **float64
	}{
		{"DEVICE_LATITUDE", &config.Device.Latitude},
		{"DEVICE_LONGITUDE", &config.Device.Longitude},
	} {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", o.name, v, err)
		}
		*o.dst = &f
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	return nil
}
