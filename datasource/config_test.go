package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Equal(t, DefaultWeatherAPIBaseURL, config.WeatherAPI.BaseURL)
	assert.Equal(t, Duration(10*time.Second), config.WeatherAPI.Timeout)
	assert.True(t, config.Device.Enabled)
	assert.Equal(t, Duration(5*time.Second), config.Device.Timeout)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"weatherAPI": {"apiKey": "from-file", "timeout": "3s", "rateLimit": 1, "burst": 5},
		"device": {"enabled": true, "latitude": 35.68, "longitude": 139.69},
		"server": {"port": 9090}
	}`), 0o600))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", config.WeatherAPI.APIKey)
	assert.Equal(t, Duration(3*time.Second), config.WeatherAPI.Timeout)
	assert.Equal(t, 5, config.WeatherAPI.Burst)
	require.NotNil(t, config.Device.Latitude)
	assert.Equal(t, 35.68, *config.Device.Latitude)
	assert.Equal(t, 9090, config.Server.Port)
	// untouched sections keep their defaults
	assert.Equal(t, "https://ipapi.co/json/", config.IPGeolocation.URL)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
weatherAPI:
  apiKey: yaml-key
  timeout: 2s
device:
  enabled: false
log:
  level: debug
  format: json
`), 0o600))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "yaml-key", config.WeatherAPI.APIKey)
	assert.Equal(t, Duration(2*time.Second), config.WeatherAPI.Timeout)
	assert.False(t, config.Device.Enabled)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "from-env")
	t.Setenv("DEVICE_ENABLED", "false")
	t.Setenv("DEVICE_LATITUDE", "-33.87")
	t.Setenv("DEVICE_LONGITUDE", "151.21")
	t.Setenv("LOG_LEVEL", "warn")

	config, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "from-env", config.WeatherAPI.APIKey)
	assert.False(t, config.Device.Enabled)
	require.NotNil(t, config.Device.Longitude)
	assert.Equal(t, 151.21, *config.Device.Longitude)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weatherAPI": {"timeout": "soon"}}`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)

	t.Setenv("DEVICE_LATITUDE", "north")
	_, err = LoadConfig("")
	assert.Error(t, err)
}
