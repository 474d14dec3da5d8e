package dashboard

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"weather-dashboard/animation"
	"weather-dashboard/models"
)

const (
	LoadingHeadline = "Gathering Atmospheric Insights"
	ErrorHeadline   = "Atmospheric Disruption"

	// defaultErrorMessage is shown when a failure carried no message
	defaultErrorMessage = "Unable to decode atmospheric signals"

	clockLayout = "03:04 PM"
)

// View is the display model for one session state. Exactly one of
// Loading, Error and Weather is set, matching Kind.
type View struct {
	Kind    Kind         `json:"kind"`
	Loading *LoadingView `json:"loading,omitempty"`
	Error   *ErrorView   `json:"error,omitempty"`
	Weather *WeatherView `json:"weather,omitempty"`
}

type LoadingView struct {
	Headline  string              `json:"headline"`
	Animation animation.Animation `json:"animation"`
}

type ErrorView struct {
	Headline  string              `json:"headline"`
	Message   string              `json:"message"`
	Animation animation.Animation `json:"animation"`
}

type WeatherView struct {
	Headline   string              `json:"headline"` // "Name, Country"
	TempC      int                 `json:"tempC"`
	FeelsLikeC int                 `json:"feelsLikeC"`
	Condition  string              `json:"condition"`
	Animation  animation.Animation `json:"animation"`
	WindKph    int                 `json:"windKph"`
	Humidity   int                 `json:"humidity"`
	PrecipMm   float64             `json:"precipMm"`
	Sunrise    string              `json:"sunrise"`
	Sunset     string              `json:"sunset"`
	Days       []DayCard           `json:"days"`
	Alerts     []models.Alert      `json:"alerts,omitempty"`
}

// DayCard is one entry of the forecast strip
type DayCard struct {
	Date      string              `json:"date"`
	Weekday   string              `json:"weekday"` // "Mon"
	Animation animation.Animation `json:"animation"`
	MaxTempC  int                 `json:"maxTempC"`
	MinTempC  int                 `json:"minTempC"`
}

// BuildView derives the display model for a state
func BuildView(state State) View {
	switch st := state.(type) {
	case Failed:
		message := st.Message
		if message == "" {
			message = defaultErrorMessage
		}
		return View{Kind: KindFailed, Error: &ErrorView{
			Headline:  ErrorHeadline,
			Message:   message,
			Animation: animation.Storm,
		}}
	case Ready:
		return View{Kind: KindReady, Weather: buildWeatherView(st.Snapshot)}
	default:
		return View{Kind: KindPending, Loading: &LoadingView{
			Headline:  LoadingHeadline,
			Animation: animation.Cloudy,
		}}
	}
}

func buildWeatherView(s models.ForecastSnapshot) *WeatherView {
	v := &WeatherView{
		Headline:   s.Location.Name + ", " + s.Location.Country,
		TempC:      round(s.Current.TempC),
		FeelsLikeC: round(s.Current.FeelsLikeC),
		Condition:  s.Current.Condition.Text,
		Animation:  animation.Classify(s.Current.Condition.Text),
		WindKph:    round(s.Current.WindKph),
		Humidity:   s.Current.Humidity,
		PrecipMm:   s.Current.PrecipMm,
		Days:       make([]DayCard, 0, len(s.Days)),
		Alerts:     s.Alerts,
	}

	if today, ok := s.Today(); ok {
		v.Sunrise, v.Sunset = today.Sunrise, today.Sunset
		if v.Sunrise == "" || v.Sunset == "" {
			sunrise, sunset := computeSunTimes(today.Date, s.Location)
			if v.Sunrise == "" {
				v.Sunrise = sunrise
			}
			if v.Sunset == "" {
				v.Sunset = sunset
			}
		}
	}

	for _, day := range s.Days {
		card := DayCard{
			Date:      day.Date,
			Animation: animation.Classify(day.Condition.Text),
			MaxTempC:  round(day.MaxTempC),
			MinTempC:  round(day.MinTempC),
		}
		if d, err := time.Parse("2006-01-02", day.Date); err == nil {
			card.Weekday = d.Format("Mon")
		}
		v.Days = append(v.Days, card)
	}

	return v
}

// computeSunTimes calculates sunrise and sunset for a date at the forecast location,
// formatted in the location's time zone. Either value is empty when the sun does
// not rise or set that day or the date cannot be parsed.
func computeSunTimes(date string, loc models.Location) (string, string) {
	tz, err := time.LoadLocation(loc.TimeZone)
	if err != nil {
		tz = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", date, tz)
	if err != nil {
		return "", ""
	}
	noon := day.Add(12 * time.Hour)

	times := suncalc.GetTimes(noon, loc.Latitude, loc.Longitude)
	format := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(tz).Format(clockLayout)
	}
	return format(times["sunrise"].Value), format(times["sunset"].Value)
}

// round rounds half up, so 21.5 becomes 22 and -2.5 becomes -2
func round(f float64) int {
	return int(math.Floor(f + 0.5))
}
