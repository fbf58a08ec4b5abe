package subtitle

import (
	"github.com/kmahadev/cuesync/internal/logging"
)

// represents single timed caption entry; times are seconds
type Cue struct {
	ID        string
	StartTime float64
	EndTime   float64
	Text      string
	Data      map[string]any
}

// Duration returns the cue's on-screen time in seconds.
func (c Cue) Duration() float64 {
	return c.EndTime - c.StartTime
}

// represents supported caption formats
type Format string

const (
	FormatVTT  Format = "vtt"
	FormatSRT  Format = "srt"
	FormatASS  Format = "ass"
	FormatSBV  Format = "sbv"
	FormatJSON Format = "json"
)

// named base style from an ASS/SSA style table
type Style struct {
	Name         string
	FontName     string
	FontSize     float64
	PrimaryColor string
	Opacity      float64
	Bold         bool
	Italic       bool
	Underline    bool
	StrikeOut    bool
}

// style overrides extracted from in-text {...} tags; a nil flag means
// the tags did not touch it
type InlineStyle struct {
	Bold         *bool
	Italic       *bool
	Underline    *bool
	StrikeOut    *bool
	PrimaryColor string
	FontSize     float64
}

// Data keys under which the ASS parser attaches style metadata.
const (
	DataKeyStyle  = "style"
	DataKeyInline = "inline"
)

// parser for one caption grammar; total, never fails, returns an empty
// slice for empty or fully malformed input
type ParseFunc func(content string) []Cue

var parsers = map[Format]ParseFunc{
	FormatVTT:  ParseVTT,
	FormatSRT:  ParseSRT,
	FormatASS:  ParseASS,
	FormatSBV:  ParseSBV,
	FormatJSON: ParseJSON,
}

// Parse dispatches content to the parser for the given format. An
// unknown format falls back to VTT, mirroring extension detection.
func Parse(content string, format Format) []Cue {
	if p, ok := parsers[format]; ok {
		return p(content)
	}
	return ParseVTT(content)
}

var logger = logging.NewNop()

// SetLogger installs the logger the parsers use for per-entry warnings.
func SetLogger(l *logging.Logger) {
	if l != nil {
		logger = l
	}
}
