// Package animation picks the decorative animation for a weather condition.
package animation

import "strings"

// Animation is one of the five animation categories the dashboard can show
type Animation string

const (
	Clear  Animation = "clear"
	Cloudy Animation = "cloudy"
	Rain   Animation = "rain"
	Snow   Animation = "snow"
	Storm  Animation = "storm"
)

type rule struct {
	keyword   string
	animation Animation
}

// rules are evaluated top to bottom and the first match wins, so a description
// that mentions several keywords resolves to the earliest one listed here.
var rules = []rule{
	{"sunny", Clear},
	{"clear", Clear},
	{"cloudy", Cloudy},
	{"rain", Rain},
	{"snow", Snow},
	{"storm", Storm},
	{"thunder", Storm},
}

// Classify maps a condition description to an animation, defaulting to Clear
func Classify(condition string) Animation {
	lower := strings.ToLower(condition)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.animation
		}
	}
	return Clear
}
