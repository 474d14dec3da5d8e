package dashboard

import (
	"fmt"
	"io"
	"strings"
)

// Render writes a plain-text rendering of the view
func Render(w io.Writer, v View) error {
	var b strings.Builder

	// a view whose body does not match its kind renders as loading
	switch {
	case v.Kind == KindFailed && v.Error != nil:
		fmt.Fprintf(&b, "[%s] %s\n", v.Error.Animation, v.Error.Headline)
		fmt.Fprintf(&b, "%s\n", v.Error.Message)
	case v.Kind == KindReady && v.Weather != nil:
		renderWeather(&b, v.Weather)
	default:
		loading := v.Loading
		if loading == nil {
			loading = BuildView(Pending{}).Loading
		}
		fmt.Fprintf(&b, "[%s] %s\n", loading.Animation, loading.Headline)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderWeather(b *strings.Builder, w *WeatherView) {
	fmt.Fprintf(b, "%s\n", w.Headline)
	fmt.Fprintf(b, "[%s] %d° %s, feels like %d°\n", w.Animation, w.TempC, w.Condition, w.FeelsLikeC)
	fmt.Fprintf(b, "Wind %d km/h  Humidity %d%%  Precipitation %g mm\n", w.WindKph, w.Humidity, w.PrecipMm)
	fmt.Fprintf(b, "Sunrise %s  Sunset %s\n", w.Sunrise, w.Sunset)

	for _, a := range w.Alerts {
		fmt.Fprintf(b, "! %s (%s)\n", a.Headline, a.Severity)
	}

	if len(w.Days) == 0 {
		return
	}
	b.WriteString("\n")
	for _, d := range w.Days {
		fmt.Fprintf(b, "%-4s %-7s %3d° %3d°\n", d.Weekday, d.Animation, d.MaxTempC, d.MinTempC)
	}
}
