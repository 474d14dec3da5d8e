package dashboard

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/animation"
	"weather-dashboard/models"
)

func sampleSnapshot() models.ForecastSnapshot {
	return models.ForecastSnapshot{
		Location: models.Location{
			Name: "Tokyo", Country: "Japan", Latitude: 35.69, Longitude: 139.69, TimeZone: "Asia/Tokyo",
		},
		Current: models.Current{
			TempC:      21.5,
			FeelsLikeC: -2.5,
			Condition:  models.Condition{Text: "Patchy rain possible"},
			WindKph:    11.4,
			Humidity:   65,
			PrecipMm:   0.3,
		},
		Days: []models.DailyForecast{
			{Date: "2024-06-01", MaxTempC: 25.6, MinTempC: 18.2, Condition: models.Condition{Text: "Sunny"}, Sunrise: "04:25 AM", Sunset: "06:54 PM"},
			{Date: "2024-06-02", MaxTempC: 22, MinTempC: 17, Condition: models.Condition{Text: "Light snow"}},
		},
	}
}

func TestBuildViewPending(t *testing.T) {
	v := BuildView(Pending{})

	assert.Equal(t, KindPending, v.Kind)
	require.NotNil(t, v.Loading)
	assert.Nil(t, v.Error)
	assert.Nil(t, v.Weather)
	assert.Equal(t, LoadingHeadline, v.Loading.Headline)
	assert.Equal(t, animation.Cloudy, v.Loading.Animation)
}

func TestBuildViewFailed(t *testing.T) {
	v := BuildView(Failed{Message: "Invalid API key", Err: errors.New("status 401")})

	assert.Equal(t, KindFailed, v.Kind)
	require.NotNil(t, v.Error)
	assert.Nil(t, v.Loading)
	assert.Nil(t, v.Weather)
	assert.Equal(t, "Invalid API key", v.Error.Message)
	assert.Equal(t, animation.Storm, v.Error.Animation)

	assert.Equal(t, defaultErrorMessage, BuildView(Failed{}).Error.Message)
}

func TestBuildViewReady(t *testing.T) {
	v := BuildView(Ready{Snapshot: sampleSnapshot()})

	require.NotNil(t, v.Weather)
	assert.Nil(t, v.Loading)
	assert.Nil(t, v.Error)

	w := v.Weather
	assert.Equal(t, "Tokyo, Japan", w.Headline)
	assert.Equal(t, 22, w.TempC)
	assert.Equal(t, -2, w.FeelsLikeC)
	assert.Equal(t, 11, w.WindKph)
	assert.Equal(t, animation.Rain, w.Animation)
	assert.Equal(t, "04:25 AM", w.Sunrise)
	assert.Equal(t, "06:54 PM", w.Sunset)

	require.Len(t, w.Days, 2)
	assert.Equal(t, DayCard{Date: "2024-06-01", Weekday: "Sat", Animation: animation.Clear, MaxTempC: 26, MinTempC: 18}, w.Days[0])
	assert.Equal(t, "Sun", w.Days[1].Weekday)
	assert.Equal(t, animation.Snow, w.Days[1].Animation)
}

func TestBuildViewComputesMissingSunTimes(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Days[0].Sunrise = ""
	snapshot.Days[0].Sunset = ""

	w := BuildView(Ready{Snapshot: snapshot}).Weather

	clock := regexp.MustCompile(`^\d{2}:\d{2} (AM|PM)$`)
	assert.Regexp(t, clock, w.Sunrise)
	assert.Regexp(t, clock, w.Sunset)
	// Tokyo in early June: sunrise shortly after 4:20, sunset just before 19:00
	assert.Contains(t, w.Sunrise, "04:")
	assert.Contains(t, w.Sunset, "06:")
}

func TestBuildViewWithoutDays(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Days = nil

	w := BuildView(Ready{Snapshot: snapshot}).Weather

	assert.Empty(t, w.Sunrise)
	assert.Empty(t, w.Days)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, BuildView(Pending{})))
	assert.Equal(t, "[cloudy] Gathering Atmospheric Insights\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, BuildView(Failed{Message: "Unable to retrieve location"})))
	assert.Equal(t, "[storm] Atmospheric Disruption\nUnable to retrieve location\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, BuildView(Ready{Snapshot: sampleSnapshot()})))
	out := buf.String()
	assert.Contains(t, out, "Tokyo, Japan\n")
	assert.Contains(t, out, "[rain] 22° Patchy rain possible, feels like -2°")
	assert.Contains(t, out, "Sunrise 04:25 AM  Sunset 06:54 PM")
	assert.Contains(t, out, "Sat  clear    26°  18°")
}

func TestRenderMismatchedViewFallsBackToLoading(t *testing.T) {
	for _, v := range []View{
		{},
		{Kind: KindReady},
		{Kind: KindFailed, Weather: &WeatherView{Headline: "Tokyo, Japan"}},
	} {
		var buf bytes.Buffer
		require.NotPanics(t, func() { require.NoError(t, Render(&buf, v)) })
		assert.Equal(t, "[cloudy] Gathering Atmospheric Insights\n", buf.String())
	}
}
