package subtitle

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseASS parses ASS/SSA content into cues. Style metadata is not
// collected; use ParseASSStyled when the caller wants it.
func ParseASS(content string) []Cue {
	return parseASS(content, false)
}

// ParseASSStyled is ParseASS with style metadata attached: the cue's
// Data carries the resolved base style under DataKeyStyle and any
// override-tag record under DataKeyInline.
func ParseASSStyled(content string) []Cue {
	return parseASS(content, true)
}

func parseASS(content string, collectStyles bool) []Cue {
	cues := []Cue{}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var styleCols map[string]int
	// canonical v4+ event order, replaced by an explicit Format: line
	eventCols := parseFormatColumns(
		"Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
	)
	styles := map[string]Style{}
	section := "events"
	lineNum := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"),
			)
			continue
		}

		switch {
		case strings.Contains(section, "styles"):
			if rest, ok := cutPrefixFold(trimmed, "Format:"); ok {
				styleCols = parseFormatColumns(rest)
				continue
			}
			if rest, ok := cutPrefixFold(trimmed, "Style:"); ok {
				if style, ok := parseStyleLine(rest, styleCols); ok {
					styles[style.Name] = style
				}
			}

		case section == "events":
			if rest, ok := cutPrefixFold(trimmed, "Format:"); ok {
				eventCols = parseFormatColumns(rest)
				continue
			}
			if rest, ok := cutPrefixFold(trimmed, "Dialogue:"); ok {
				if cue, ok := parseDialogueLine(rest, eventCols, styles, collectStyles); ok {
					cues = append(cues, cue)
				}
			}
		}
	}

	// source files do not guarantee chronological dialogue order
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].StartTime < cues[j].StartTime
	})

	for i := range cues {
		cues[i].ID = strconv.Itoa(i + 1)
	}

	return cues
}

func cutPrefixFold(line, prefix string) (string, bool) {
	if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
		return strings.TrimSpace(line[len(prefix):]), true
	}
	return "", false
}

// builds the lowercase column-name -> index map a Format: line defines
func parseFormatColumns(rest string) map[string]int {
	cols := map[string]int{}
	for i, col := range strings.Split(rest, ",") {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return cols
}

func parseStyleLine(rest string, cols map[string]int) (Style, bool) {
	if len(cols) == 0 {
		return Style{}, false
	}

	fields := strings.Split(rest, ",")
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	style := Style{
		Name:      get("name"),
		FontName:  get("fontname"),
		Opacity:   1,
		Bold:      styleFlag(get("bold")),
		Italic:    styleFlag(get("italic")),
		Underline: styleFlag(get("underline")),
		StrikeOut: styleFlag(get("strikeout")),
	}
	if style.Name == "" {
		return Style{}, false
	}

	if size, err := strconv.ParseFloat(get("fontsize"), 64); err == nil {
		style.FontSize = size
	}

	// the primary-color column appears under either spelling
	raw := get("primarycolour")
	if raw == "" {
		raw = get("primarycolor")
	}
	if raw != "" {
		style.PrimaryColor, style.Opacity = parseASSColor(raw)
	}

	return style, true
}

// SSA uses -1 for true in style flag columns
func styleFlag(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n != 0
}

func parseDialogueLine(
	rest string,
	cols map[string]int,
	styles map[string]Style,
	collectStyles bool,
) (Cue, bool) {
	if len(cols) == 0 {
		return Cue{}, false
	}

	textIdx, ok := cols["text"]
	if !ok {
		return Cue{}, false
	}

	// the Text field may itself contain commas, so only the first k-1
	// fields split on commas; the remainder is the text verbatim
	fields := splitDialogueFields(rest, len(cols))
	if len(fields) < len(cols) || textIdx >= len(fields) {
		return Cue{}, false
	}

	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	cue := Cue{
		StartTime: ParseTimestamp(get("start")),
		EndTime:   ParseTimestamp(get("end")),
	}

	text, inline := stripOverrideTags(fields[textIdx])
	text = strings.ReplaceAll(text, "\\N", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")
	cue.Text = text

	if collectStyles {
		data := map[string]any{}
		if style, ok := styles[get("style")]; ok {
			data[DataKeyStyle] = style
		}
		if inline != nil {
			data[DataKeyInline] = *inline
		}
		if len(data) > 0 {
			cue.Data = data
		}
	}

	return cue, true
}

func splitDialogueFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	fields := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			fields = append(fields, remaining)
			remaining = ""
			break
		}
		fields = append(fields, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	fields = append(fields, remaining)

	return fields
}

var overrideTagRegex = regexp.MustCompile(`\{[^}]*\}`)

// stripOverrideTags removes every {...} override group from the text
// and records the bold/italic/underline/strikeout, primary-color and
// font-size overrides it saw. Other tags (positioning, karaoke,
// drawing) are stripped without interpretation.
func stripOverrideTags(text string) (string, *InlineStyle) {
	if !strings.Contains(text, "{") {
		return text, nil
	}

	var inline *InlineStyle
	record := func() *InlineStyle {
		if inline == nil {
			inline = &InlineStyle{}
		}
		return inline
	}

	for _, group := range overrideTagRegex.FindAllString(text, -1) {
		body := strings.TrimSuffix(strings.TrimPrefix(group, "{"), "}")
		for _, tag := range strings.Split(body, "\\") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			switch {
			case tagToggle(tag, "b") != nil:
				record().Bold = tagToggle(tag, "b")
			case tagToggle(tag, "i") != nil:
				record().Italic = tagToggle(tag, "i")
			case tagToggle(tag, "u") != nil:
				record().Underline = tagToggle(tag, "u")
			case tagToggle(tag, "s") != nil:
				record().StrikeOut = tagToggle(tag, "s")
			case strings.HasPrefix(tag, "1c"), strings.HasPrefix(tag, "c&"):
				raw := strings.TrimPrefix(tag, "1c")
				raw = strings.TrimPrefix(raw, "c")
				raw = strings.Trim(raw, "&")
				if raw != "" {
					color, _ := parseASSColor("&" + raw + "&")
					if color != "" {
						record().PrimaryColor = color
					}
				}
			case strings.HasPrefix(tag, "fs"):
				if size, err := strconv.ParseFloat(tag[2:], 64); err == nil {
					record().FontSize = size
				}
			}
		}
	}

	return overrideTagRegex.ReplaceAllString(text, ""), inline
}

// tagToggle parses toggles like \b1, \i0 or \b700; a non-numeric
// remainder means the tag is something else (\be, \blur, \shad).
func tagToggle(tag, name string) *bool {
	rest, found := strings.CutPrefix(tag, name)
	if !found || rest == "" {
		return nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return nil
	}
	on := n != 0
	return &on
}

// parseASSColor decodes &H[AA]BBGGRR hex into an RGB hex string and an
// opacity. Six digits are BGR; eight digits carry a leading alpha byte
// stored opacity-inverted, so opacity = (255 - A) / 255.
func parseASSColor(raw string) (string, float64) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "&")
	s = strings.TrimPrefix(s, "H")
	s = strings.TrimPrefix(s, "h")

	opacity := 1.0

	if len(s) == 8 {
		alpha, err := strconv.ParseUint(s[:2], 16, 8)
		if err != nil {
			return "", 1
		}
		opacity = float64(255-alpha) / 255
		s = s[2:]
	}

	if len(s) != 6 {
		return "", 1
	}

	b, err1 := strconv.ParseUint(s[0:2], 16, 8)
	g, err2 := strconv.ParseUint(s[2:4], 16, 8)
	r, err3 := strconv.ParseUint(s[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", 1
	}

	return fmt.Sprintf("#%02X%02X%02X", r, g, b), opacity
}
