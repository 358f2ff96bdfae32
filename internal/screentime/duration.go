package screentime

import (
	"regexp"
	"strconv"
	"strings"
)

// Duration grammar for screen-time labels, tried in priority order:
//
//  1. hour/minute unit words ("1h 20m", "1 h 20 min", "2,5 h"), decimal
//     hours allowed with either comma or dot
//  2. clock-style H:MM or H.MM with a two-digit minute part under 60
//  3. bare minute counts and bare hour counts with a unit suffix are
//     subsumed by the first form
//
// A parse that nets zero minutes is rejected; screen-time rows never show
// zero durations, so a zero is OCR noise.
var (
	unitPattern  = regexp.MustCompile(`^(?:(\d{1,3}(?:[.,]\d{1,2})?)\s*(?:h|hr|hrs|hour|hours|std))?\s*(?:(\d{1,4})\s*(?:m|min|mins|minute|minutes))?$`)
	clockPattern = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)
)

// ParseDuration interprets a text fragment as a daily screen-time duration
// and returns the total minutes. The fragment may span several whitespace
// separated tokens.
func ParseDuration(text string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return 0, false
	}

	if m := unitPattern.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		minutes := 0.0
		if m[1] != "" {
			hours, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
			if err != nil {
				return 0, false
			}
			minutes += hours * 60
		}
		if m[2] != "" {
			mins, err := strconv.Atoi(m[2])
			if err != nil {
				return 0, false
			}
			minutes += float64(mins)
		}
		if minutes <= 0 {
			return 0, false
		}
		return minutes, true
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if mins >= 60 {
			return 0, false
		}
		total := float64(hours*60 + mins)
		if total <= 0 {
			return 0, false
		}
		return total, true
	}

	return 0, false
}
