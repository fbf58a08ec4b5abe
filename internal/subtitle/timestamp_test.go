package subtitle

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"00:00:00.000", 0},
		{"00:00:05.000", 5},
		{"00:01:02.500", 62.5},
		{"1:30:45.50", 5445.5},
		{"01:02.250", 62.25},
		{"00:00:05,000", 5},
		{"02:03:04,500", 7384.5},
		{"", 0},
		{"garbage", 0},
		{"12", 0},
		{"a:b:c", 0},
		{"00:xx:05.000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseTimestamp(tt.input)
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestampCommaDotAgree(t *testing.T) {
	dot := ParseTimestamp("00:00:08.200")
	comma := ParseTimestamp("00:00:08,200")
	if dot != comma {
		t.Errorf("dot %v and comma %v variants disagree", dot, comma)
	}
}

func TestParseTimelineLine(t *testing.T) {
	start, end, ok := ParseTimelineLine("00:00:01.000 --> 00:00:04.000")
	if !ok {
		t.Fatal("expected timeline line to match")
	}
	if start != 1 || end != 4 {
		t.Errorf("got (%v, %v), want (1, 4)", start, end)
	}
}

func TestParseTimelineLineWithCueSettings(t *testing.T) {
	start, end, ok := ParseTimelineLine(
		"00:00:01.000 --> 00:00:04.000 position:10%,line-left align:left",
	)
	if !ok {
		t.Fatal("expected timeline line to match")
	}
	if start != 1 || end != 4 {
		t.Errorf("got (%v, %v), want (1, 4)", start, end)
	}
}

func TestParseTimelineLineNoArrow(t *testing.T) {
	if _, _, ok := ParseTimelineLine("just some text"); ok {
		t.Error("expected no match for a line without an arrow")
	}
}
