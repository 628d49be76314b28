package tts

import (
	"fmt"
	"strconv"
	"strings"
)

// Speed multiplier bounds accepted by the speech endpoints.
const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// ParseRate converts a percentage rate adjustment ("+15%", "-5%", "+0%")
// into a speed multiplier. The empty string means unmodified speed.
func ParseRate(rate string) (float64, error) {
	s := strings.TrimSpace(rate)
	if s == "" {
		return 1.0, nil
	}
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("tts: rate %q must end with %%", rate)
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("tts: invalid rate %q: %w", rate, err)
	}

	speed := 1 + pct/100
	if speed < minSpeed || speed > maxSpeed {
		return 0, fmt.Errorf("tts: rate %q out of range (speed %.2f, allowed %.2f-%.2f)", rate, speed, minSpeed, maxSpeed)
	}
	return speed, nil
}
