package subtitle

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var sbvTimestampRegex = regexp.MustCompile(`^\d+:\d{2}:\d{2}\.\d{3}$`)

// ParseSBV parses YouTube SBV content. Blocks carry no id line; the
// timeline is two dot-decimal timestamps separated by a comma. Ids are
// synthesized as an incrementing counter since the format has none.
func ParseSBV(content string) []Cue {
	cues := []Cue{}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Cue
	var textLines []string
	counter := 0
	lineNum := 0

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if start, end, ok := parseSBVTimeline(line); ok {
			flush()
			counter++
			current = &Cue{
				ID:        strconv.Itoa(counter),
				StartTime: start,
				EndTime:   end,
			}
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}

	flush()

	return cues
}

// "H:MM:SS.mmm,H:MM:SS.mmm" with optional spaces around the comma
func parseSBVTimeline(line string) (start, end float64, ok bool) {
	before, after, found := strings.Cut(line, ",")
	if !found {
		return 0, 0, false
	}

	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)

	if !sbvTimestampRegex.MatchString(before) || !sbvTimestampRegex.MatchString(after) {
		return 0, 0, false
	}

	return ParseTimestamp(before), ParseTimestamp(after), true
}
