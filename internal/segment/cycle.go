package segment

import (
	"sync"
	"time"

	"github.com/kmahadev/cuesync/internal/logging"
)

// Cycler steps through a cue's display segments on a repeating timer.
// It recomputes segments and dwell whenever the cue text changes,
// resets to the first segment on any such change, and only runs its
// timer while segmentation produced more than one segment and the
// display is visible. Stopping is idempotent and no tick is delivered
// after Close.
type Cycler struct {
	mu sync.Mutex

	opts   Options
	logger *logging.Logger

	text     string
	hasCue   bool
	segments []string
	dwell    float64
	index    int

	visible bool
	closed  bool

	ticker *time.Ticker
	done   chan struct{}
	gen    uint64
}

func NewCycler(opts Options, logger *logging.Logger) *Cycler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cycler{
		opts:   opts,
		logger: logger,
	}
}

// SetCue installs the active cue's text and duration (seconds; pass 0
// when unknown). A text identical to the current one is a no-op, so
// per-frame re-delivery of the same cue never resets the cycle.
func (c *Cycler) SetCue(text string, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.hasCue && text == c.text {
		return
	}

	c.stopLocked()

	c.text = text
	c.hasCue = true
	c.segments = Split(text, c.opts)
	c.dwell = Dwell(duration, len(c.segments), c.opts)
	c.index = 0

	c.logger.Debugw("Cue segmented",
		"segments", len(c.segments),
		"dwell_seconds", c.dwell,
	)

	c.startLocked()
}

// Clear drops the active cue and stops any cycling.
func (c *Cycler) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.text = ""
	c.hasCue = false
	c.segments = nil
	c.index = 0
}

// SetVisible tells the cycler whether the display is on screen.
// Losing visibility cancels the timer; regaining it while the cue is
// still segmented restarts it.
func (c *Cycler) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || visible == c.visible {
		return
	}
	c.visible = visible

	if visible {
		c.startLocked()
	} else {
		c.stopLocked()
	}
}

// Current returns the segment on display, "" when there is none.
func (c *Cycler) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.segments) == 0 {
		return ""
	}
	return c.segments[c.index]
}

func (c *Cycler) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Cycler) Segments() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.segments
}

// DwellSeconds returns the per-segment display time currently in use.
func (c *Cycler) DwellSeconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dwell
}

// Cycling reports whether the timer is running.
func (c *Cycler) Cycling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker != nil
}

// Close tears the cycler down. Idempotent; the timer never fires
// afterwards.
func (c *Cycler) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopLocked()
}

// a single-segment result never starts the timer
func (c *Cycler) startLocked() {
	if c.ticker != nil || c.closed || !c.visible || !c.opts.Enabled {
		return
	}
	if len(c.segments) <= 1 {
		return
	}

	interval := time.Duration(c.dwell * float64(time.Second))
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	c.ticker = ticker
	c.done = done
	c.gen++
	gen := c.gen

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.tick(gen)
			}
		}
	}()
}

func (c *Cycler) stopLocked() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.done)
	c.ticker = nil
	c.done = nil
}

func (c *Cycler) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a tick already queued when its timer was cancelled is dropped,
	// even if a newer timer has started since
	if c.ticker == nil || c.closed || gen != c.gen {
		return
	}

	if len(c.segments) <= 1 {
		c.stopLocked()
		c.index = 0
		return
	}

	c.index = (c.index + 1) % len(c.segments)
}
