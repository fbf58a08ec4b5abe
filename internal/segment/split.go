package segment

import (
	"math"
	"strings"
)

// Defaults applied when the corresponding Options field is zero.
const (
	DefaultLineHeight      = 1.5
	DefaultFontSize        = 16.0
	DefaultDwellSeconds    = 3.0
	DefaultMinDwellSeconds = 1.0
)

// Options describes the fixed display box a cue must fit into and the
// pacing of segment cycling. Height and MaxWidth are pixels.
type Options struct {
	Enabled  bool
	Height   float64
	MaxWidth float64
	FontSize float64
	// multiple of FontSize per text line; a stable heuristic, not a
	// font metric
	LineHeight float64

	DwellSeconds    float64
	MinDwellSeconds float64
}

func (o Options) fontSize() float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return DefaultFontSize
}

func (o Options) lineHeight() float64 {
	if o.LineHeight > 0 {
		return o.LineHeight
	}
	return DefaultLineHeight
}

func (o Options) dwellSeconds() float64 {
	if o.DwellSeconds > 0 {
		return o.DwellSeconds
	}
	return DefaultDwellSeconds
}

func (o Options) minDwellSeconds() float64 {
	if o.MinDwellSeconds > 0 {
		return o.MinDwellSeconds
	}
	return DefaultMinDwellSeconds
}

// Capacity returns the box size in character-width units:
// floor(height / (fontSize * lineHeight)) lines of
// floor(maxWidth / fontSize) full-width characters each.
func (o Options) Capacity() float64 {
	fs := o.fontSize()
	maxLines := math.Floor(o.Height / (fs * o.lineHeight()))
	charsPerLine := math.Floor(o.MaxWidth / fs)
	return maxLines * charsPerLine
}

// sentence-ending punctuation; each delimiter stays attached to its
// preceding fragment
const sentenceEnders = ".!?。！？"

// Split breaks cue text into display-sized segments. Text that fits
// the box, or a disabled/unbounded box, comes back as a single
// segment. Otherwise sentence fragments are greedily packed up to the
// box capacity, and a lone fragment wider than the capacity is
// force-split purely by accumulated character width so the segment
// size stays bounded regardless of punctuation.
func Split(text string, opts Options) []string {
	if !opts.Enabled || opts.Height <= 0 {
		return []string{text}
	}

	capacity := opts.Capacity()
	if capacity <= 0 {
		return []string{text}
	}

	if TextWidth(text) <= capacity {
		return []string{text}
	}

	var segments []string
	var current strings.Builder
	var currentWidth float64

	closeSegment := func() {
		if current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
			currentWidth = 0
		}
	}

	for _, frag := range splitSentences(text) {
		w := TextWidth(frag)

		if currentWidth+w <= capacity {
			current.WriteString(frag)
			currentWidth += w
			continue
		}

		closeSegment()

		if w <= capacity {
			current.WriteString(frag)
			currentWidth = w
			continue
		}

		// single fragment wider than the box; split by width alone
		pieces := forceSplit(frag, capacity)
		for i, piece := range pieces {
			if i == len(pieces)-1 {
				// the tail stays open so following fragments can pack
				current.WriteString(piece)
				currentWidth = TextWidth(piece)
			} else {
				segments = append(segments, piece)
			}
		}
	}

	closeSegment()

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}

	return out
}

func splitSentences(text string) []string {
	var frags []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if strings.ContainsRune(sentenceEnders, r) {
			frags = append(frags, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		frags = append(frags, current.String())
	}

	return frags
}

func forceSplit(s string, capacity float64) []string {
	var pieces []string
	var current strings.Builder
	var width float64

	for _, r := range s {
		w := CharWidth(r)
		if width+w > capacity && current.Len() > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
			width = 0
		}
		current.WriteRune(r)
		width += w
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	return pieces
}

// Dwell computes the per-segment display time in seconds. It defaults
// to the configured constant; when the cue's real duration is known it
// is spread evenly across the segments instead, clamped to the
// configured floor and to twice the default constant.
func Dwell(cueDuration float64, segments int, opts Options) float64 {
	base := opts.dwellSeconds()
	if segments <= 0 {
		return base
	}

	if cueDuration <= 0 {
		return base
	}

	per := cueDuration / float64(segments)
	if min := opts.minDwellSeconds(); per < min {
		per = min
	}
	if max := 2 * base; per > max {
		per = max
	}
	return per
}
