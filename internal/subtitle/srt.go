package subtitle

import (
	"bufio"
	"strconv"
	"strings"
)

// ParseSRT parses SubRip content. Each block is a sequence number, a
// comma-decimal timeline line and text lines up to the next blank
// line. A non-numeric sequence line is skipped and scanning resumes at
// the next line rather than aborting the parse.
func ParseSRT(content string) []Cue {
	cues := []Cue{}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Cue
	var textLines []string
	haveTimes := false
	lineNum := 0

	flush := func() {
		if current != nil && haveTimes && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
		haveTimes = false
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

		if current == nil {
			seq := strings.TrimSpace(line)
			if _, err := strconv.Atoi(seq); err == nil {
				current = &Cue{ID: seq}
			}
			// non-numeric sequence line: skip it, resume on the next
			continue
		}

		if !haveTimes {
			if start, end, ok := ParseTimelineLine(line); ok {
				current.StartTime = start
				current.EndTime = end
				haveTimes = true
				continue
			}
			// block without a timeline is malformed; drop it
			current = nil
			continue
		}

		textLines = append(textLines, line)
	}

	flush()

	return cues
}
