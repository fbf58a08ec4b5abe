package subtitle

import (
	"bufio"
	"strings"
)

// ParseVTT parses WebVTT content. The header line and NOTE/STYLE
// blocks are skipped; within a cue block an optional non-arrow line
// before the timeline is kept as the cue id, and the following
// non-blank lines are joined with "\n" as the cue text.
func ParseVTT(content string) []Cue {
	cues := []Cue{}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Cue
	var textLines []string
	pendingID := ""
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

		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "WEBVTT") {
			continue
		}

		if strings.HasPrefix(trimmed, "NOTE") ||
			strings.HasPrefix(trimmed, "STYLE") {
			for scanner.Scan() {
				if strings.TrimSpace(scanner.Text()) == "" {
					break
				}
			}
			continue
		}

		if trimmed == "" {
			flush()
			pendingID = ""
			continue
		}

		if start, end, ok := ParseTimelineLine(line); ok {
			flush()
			current = &Cue{
				ID:        pendingID,
				StartTime: start,
				EndTime:   end,
			}
			pendingID = ""
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
			continue
		}

		// a lone non-arrow line ahead of the timeline is the cue id
		pendingID = trimmed
	}

	flush()

	return cues
}
