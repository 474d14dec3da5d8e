package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/datasource"
)

const weatherBody = `{
	"location": {"name": "Sydney", "country": "Australia", "lat": -33.87, "lon": 151.21, "tz_id": "Australia/Sydney"},
	"current": {"temp_c": 18.4, "condition": {"text": "Light rain shower"}},
	"forecast": {"forecastday": [
		{"date": "2024-06-01", "day": {"maxtemp_c": 19, "mintemp_c": 11, "condition": {"text": "Sunny"}}, "astro": {"sunrise": "06:56 AM", "sunset": "04:53 PM"}}
	]}
}`

func newStubServices(t *testing.T) (*datasource.Config, *int32, *int32) {
	t.Helper()
	var ipHits, weatherHits int32

	ip := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ipHits, 1)
		fmt.Fprint(w, `{"latitude": -33.87, "longitude": 151.21}`)
	}))
	t.Cleanup(ip.Close)

	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&weatherHits, 1)
		assert.Equal(t, "-33.87,151.21", r.URL.Query().Get("q"))
		fmt.Fprint(w, weatherBody)
	}))
	t.Cleanup(weather.Close)

	config := datasource.DefaultConfig()
	config.WeatherAPI.APIKey = "key"
	config.WeatherAPI.BaseURL = weather.URL
	config.IPGeolocation.URL = ip.URL
	return config, &ipHits, &weatherHits
}

func TestNewFromConfigFallsBackToIP(t *testing.T) {
	config, ipHits, weatherHits := newStubServices(t)

	d := NewFromConfig(nil, config, true)
	final := d.Run(context.Background(), d.Begin())

	ready, ok := final.(Ready)
	require.True(t, ok, "unexpected state %#v", final)
	assert.Equal(t, "Sydney", ready.Snapshot.Location.Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(ipHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(weatherHits))
}

func TestNewFromConfigUsesDevicePosition(t *testing.T) {
	config, ipHits, _ := newStubServices(t)
	lat, lon := -33.87, 151.21
	config.Device.Latitude = &lat
	config.Device.Longitude = &lon

	d := NewFromConfig(nil, config, false)
	final := d.Run(context.Background(), d.Begin())

	assert.Equal(t, KindReady, final.Kind())
	assert.Equal(t, int32(0), atomic.LoadInt32(ipHits))
}

func TestNewFromConfigWithoutDevice(t *testing.T) {
	config, ipHits, weatherHits := newStubServices(t)
	config.Device.Enabled = false

	d := NewFromConfig(nil, config, true)
	final := d.Run(context.Background(), d.Begin())

	failed, ok := final.(Failed)
	require.True(t, ok)
	assert.Equal(t, "Geolocation not supported", failed.Message)
	assert.Equal(t, int32(0), atomic.LoadInt32(ipHits))
	assert.Equal(t, int32(0), atomic.LoadInt32(weatherHits))
}
