package segment

import (
	"strings"
	"testing"
	"unicode"
)

func TestCharWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want float64
	}{
		{'a', 0.5},
		{'Z', 0.5},
		{'1', 0.5},
		{'.', 0.5},
		{' ', 0.25},
		{'\n', 0.25},
		{'\t', 0.25},
		{'中', 1.0},
		{'語', 1.0},
		{'。', 1.0},
		{'！', 1.0},
		{'Ａ', 1.0}, // fullwidth latin
		{'　', 1.0}, // ideographic space counts as wide
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			got := CharWidth(tt.r)
			if got != tt.want {
				t.Errorf("CharWidth(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestTextWidth(t *testing.T) {
	// 2 wide + 1 space + 4 narrow
	got := TextWidth("中文 text")
	want := 2.0 + 0.25 + 4*0.5
	if got != want {
		t.Errorf("TextWidth = %v, want %v", got, want)
	}
}

func TestSplitDisabledPassthrough(t *testing.T) {
	long := strings.Repeat("中", 400)

	segs := Split(long, Options{Enabled: false, Height: 48, MaxWidth: 320, FontSize: 16})
	if len(segs) != 1 || segs[0] != long {
		t.Error("disabled segmentation must return the text unsplit")
	}

	segs = Split(long, Options{Enabled: true, Height: 0, MaxWidth: 320, FontSize: 16})
	if len(segs) != 1 || segs[0] != long {
		t.Error("missing height must return the text unsplit")
	}
}

func TestSplitFitsUnsplit(t *testing.T) {
	opts := Options{Enabled: true, Height: 48, MaxWidth: 320, FontSize: 16}
	// capacity = 2 lines * 20 chars = 40 units; "short" is 2.5 units
	segs := Split("short", opts)
	if len(segs) != 1 || segs[0] != "short" {
		t.Errorf("expected single unsplit segment, got %v", segs)
	}
}

func TestSplitCapacity(t *testing.T) {
	opts := Options{Enabled: true, Height: 48, MaxWidth: 320, FontSize: 16}
	if got := opts.Capacity(); got != 40 {
		t.Errorf("Capacity = %v, want 40", got)
	}
}

func TestSplitPacksSentences(t *testing.T) {
	opts := Options{Enabled: true, Height: 24, MaxWidth: 80, FontSize: 16}
	// capacity = 1 line * 5 chars = 5 units
	segs := Split("One. Two. Three.", opts)

	want := []string{"One. Two.", "Three."}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %v", len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: got %q, want %q", i, segs[i], want[i])
		}
	}

	capacity := opts.Capacity()
	for _, seg := range segs {
		if TextWidth(seg) > capacity {
			t.Errorf("segment %q exceeds capacity %v", seg, capacity)
		}
	}
}

func TestSplitForceSplitsLongFragment(t *testing.T) {
	opts := Options{Enabled: true, Height: 48, MaxWidth: 320, FontSize: 16}
	// 400 CJK characters, no internal punctuation, capacity 40
	long := strings.Repeat("中", 400)

	segs := Split(long, opts)

	if len(segs) != 10 {
		t.Fatalf("expected 10 segments, got %d", len(segs))
	}
	for i, seg := range segs {
		if w := TextWidth(seg); w > 40 {
			t.Errorf("segment %d width %v exceeds 40", i, w)
		}
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestSplitReconstructsText(t *testing.T) {
	opts := Options{Enabled: true, Height: 24, MaxWidth: 160, FontSize: 16}
	texts := []string{
		"One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten. Eleven.",
		"A sentence with no breakpoints that just keeps going and going and going on and on",
		"短い文。これはもっと長い文章です。終わり。" + strings.Repeat("長", 50),
	}

	for _, text := range texts {
		segs := Split(text, opts)
		joined := stripSpace(strings.Join(segs, ""))
		if joined != stripSpace(text) {
			t.Errorf("segments do not reconstruct %q: got %q", text, joined)
		}
	}
}

func TestSplitMixedPackAndForce(t *testing.T) {
	opts := Options{Enabled: true, Height: 24, MaxWidth: 80, FontSize: 16}
	// capacity 5; middle sentence alone is wider than the box
	text := "Hi. " + strings.Repeat("x", 30) + ". Bye."
	segs := Split(text, opts)

	capacity := opts.Capacity()
	for i, seg := range segs {
		if w := TextWidth(seg); w > capacity {
			t.Errorf("segment %d (%q) width %v exceeds %v", i, seg, w, capacity)
		}
	}
	if stripSpace(strings.Join(segs, "")) != stripSpace(text) {
		t.Error("segments do not reconstruct the input")
	}
}

func TestDwell(t *testing.T) {
	opts := Options{DwellSeconds: 3, MinDwellSeconds: 1}

	tests := []struct {
		name     string
		duration float64
		segments int
		want     float64
	}{
		{"no duration uses default", 0, 4, 3},
		{"duration divided evenly", 10, 4, 2.5},
		{"clamped to floor", 1, 10, 1},
		{"clamped to twice the default", 100, 2, 6},
		{"no segments uses default", 5, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dwell(tt.duration, tt.segments, opts)
			if got != tt.want {
				t.Errorf("Dwell(%v, %d) = %v, want %v",
					tt.duration, tt.segments, got, tt.want)
			}
		})
	}
}
