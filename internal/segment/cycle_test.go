package segment

import (
	"strings"
	"testing"
	"time"
)

// capacity 5 units, fast dwell so timer tests finish quickly
func testOptions() Options {
	return Options{
		Enabled:         true,
		Height:          24,
		MaxWidth:        80,
		FontSize:        16,
		DwellSeconds:    0.02,
		MinDwellSeconds: 0.01,
	}
}

func waitForIndexChange(t *testing.T, c *Cycler, from int) int {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if idx := c.Index(); idx != from {
			return idx
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("index never advanced from %d", from)
	return from
}

func TestCyclerSingleSegmentNeverStartsTimer(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("short", 0)

	if c.Cycling() {
		t.Error("timer running for a single-segment cue")
	}
	if c.Current() != "short" {
		t.Errorf("got current %q, want 'short'", c.Current())
	}
}

func TestCyclerAdvancesWhileVisible(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("One. Two. Three. Four.", 0)

	if n := len(c.Segments()); n < 2 {
		t.Fatalf("expected multiple segments, got %d", n)
	}
	if !c.Cycling() {
		t.Fatal("timer not running for a multi-segment visible cue")
	}

	idx := waitForIndexChange(t, c, 0)
	if idx < 1 || idx >= len(c.Segments()) {
		t.Errorf("index %d out of range", idx)
	}
}

func TestCyclerWrapsAround(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("Hi there. Bye now.", 0)

	if n := len(c.Segments()); n != 2 {
		t.Fatalf("expected 2 segments, got %d", n)
	}

	// advance to 1, then wrap back to 0
	waitForIndexChange(t, c, 0)
	if idx := waitForIndexChange(t, c, 1); idx != 0 {
		t.Errorf("expected wrap to 0, got %d", idx)
	}
}

func TestCyclerVisibilityStopsAndRestarts(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("One. Two. Three.", 0)
	if !c.Cycling() {
		t.Fatal("timer not running while visible")
	}

	c.SetVisible(false)
	if c.Cycling() {
		t.Error("timer still running after losing visibility")
	}

	c.SetVisible(true)
	if !c.Cycling() {
		t.Error("timer not restarted on regained visibility")
	}
}

func TestCyclerInvisibleNeverStarts(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetCue("One. Two. Three.", 0)
	if c.Cycling() {
		t.Error("timer running while not visible")
	}
}

func TestCyclerResetsOnTextChange(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("One. Two. Three.", 0)
	waitForIndexChange(t, c, 0)

	// hide first so the fresh index is observable without a tick racing it
	c.SetVisible(false)
	c.SetCue("Different. Cue. Text.", 0)
	if idx := c.Index(); idx != 0 {
		t.Errorf("index not reset on text change, got %d", idx)
	}
}

func TestCyclerStaleTickAfterRestartIsDropped(t *testing.T) {
	// long dwell so only the ticks delivered by hand ever run
	opts := testOptions()
	opts.DwellSeconds = 60
	opts.MinDwellSeconds = 60

	c := NewCycler(opts, nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("Hi there. Bye now.", 0)

	c.mu.Lock()
	oldGen := c.gen
	c.mu.Unlock()

	// restart on a text change; a tick from the old timer may still be
	// blocked on the mutex at this point
	c.SetCue("So long. Farewell.", 0)

	c.tick(oldGen)
	if idx := c.Index(); idx != 0 {
		t.Errorf("stale tick advanced the fresh cycle to index %d", idx)
	}

	c.mu.Lock()
	curGen := c.gen
	c.mu.Unlock()
	if curGen == oldGen {
		t.Fatal("restart did not bump the timer generation")
	}

	c.tick(curGen)
	if idx := c.Index(); idx != 1 {
		t.Errorf("current-generation tick did not advance, index %d", idx)
	}
}

func TestCyclerSameTextIsNoOp(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("One. Two. Three.", 0)
	waitForIndexChange(t, c, 0)

	// freeze the timer, then re-deliver the unchanged cue
	c.SetVisible(false)
	idx := c.Index()
	c.SetCue("One. Two. Three.", 0)
	if got := c.Index(); got != idx {
		t.Errorf("unchanged text reset the cycle: index %d, want %d", got, idx)
	}
}

func TestCyclerDwellFromCueDuration(t *testing.T) {
	opts := testOptions()
	opts.DwellSeconds = 3
	opts.MinDwellSeconds = 1
	c := NewCycler(opts, nil)
	defer c.Close()

	c.SetCue("Hi there. Bye now.", 4) // 2 segments over 4 seconds
	if n := len(c.Segments()); n != 2 {
		t.Fatalf("expected 2 segments, got %d", n)
	}
	if got := c.DwellSeconds(); got != 2 {
		t.Errorf("got dwell %v, want 2", got)
	}
}

func TestCyclerClearStops(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetVisible(true)
	c.SetCue("One. Two. Three.", 0)
	c.Clear()

	if c.Cycling() {
		t.Error("timer still running after Clear")
	}
	if c.Current() != "" {
		t.Errorf("got current %q after Clear, want empty", c.Current())
	}
	if c.Index() != 0 {
		t.Errorf("index not reset by Clear, got %d", c.Index())
	}
}

func TestCyclerCloseIsIdempotent(t *testing.T) {
	c := NewCycler(testOptions(), nil)

	c.SetVisible(true)
	c.SetCue("One. Two. Three.", 0)

	c.Close()
	c.Close()

	if c.Cycling() {
		t.Error("timer still running after Close")
	}

	idx := c.Index()
	time.Sleep(60 * time.Millisecond)
	if c.Index() != idx {
		t.Error("index advanced after Close")
	}

	// further input is ignored
	c.SetCue("New. Text. Here.", 0)
	if c.Cycling() {
		t.Error("timer restarted after Close")
	}
}

func TestCyclerLongTextSegmentsStayBounded(t *testing.T) {
	c := NewCycler(testOptions(), nil)
	defer c.Close()

	c.SetCue(strings.Repeat("語", 60), 0)

	capacity := testOptions().Capacity()
	for i, seg := range c.Segments() {
		if w := TextWidth(seg); w > capacity {
			t.Errorf("segment %d width %v exceeds capacity %v", i, w, capacity)
		}
	}
}
