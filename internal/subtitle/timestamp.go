package subtitle

import (
	"strconv"
	"strings"
)

// ParseTimestamp converts an "H:MM:SS.mmm" timestamp to seconds. A
// comma decimal separator is accepted ("H:MM:SS,mmm") and the two-field
// shorthand "MM:SS.mmm" is understood as minutes and seconds. Anything
// else yields 0; a malformed timestamp must not abort an otherwise-good
// parse, so there is no error return.
func ParseTimestamp(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")

	parts := strings.Split(s, ":")

	var hours, minutes int
	var secondsPart string
	var err error

	switch len(parts) {
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
		secondsPart = parts[2]
	case 2:
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		secondsPart = parts[1]
	default:
		return 0
	}

	seconds, err := strconv.ParseFloat(secondsPart, 64)
	if err != nil || seconds < 0 || hours < 0 || minutes < 0 {
		return 0
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds
}

// ParseTimelineLine matches a "timestamp --> timestamp" line and
// returns both endpoints in seconds. Trailing cue settings after the
// end timestamp (as WebVTT allows) are ignored. Lines without the
// arrow report ok=false.
func ParseTimelineLine(line string) (start, end float64, ok bool) {
	before, after, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}

	start = ParseTimestamp(before)

	fields := strings.Fields(after)
	if len(fields) > 0 {
		end = ParseTimestamp(fields[0])
	}

	return start, end, true
}
