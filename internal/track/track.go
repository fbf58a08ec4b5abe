package track

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/kmahadev/cuesync/internal/logging"
	"github.com/kmahadev/cuesync/internal/subtitle"
)

// ErrNoSource is returned by Load when the source names neither a URL
// nor inline content nor a ready-made cue slice.
var ErrNoSource = errors.New("source has no url, content or cues")

// Source describes where cue data comes from. Exactly one of URL,
// Content or Cues is active per load. Format is optional with a URL
// (the extension decides otherwise) and names the grammar for Content.
type Source struct {
	URL     string
	Content string
	Format  subtitle.Format
	Cues    []subtitle.Cue
}

// callback fired once per distinct active-cue transition; cue is nil
// and index -1 when no cue is active
type ChangeFunc func(cue *subtitle.Cue, index int)

// Engine owns a loaded cue track and resolves the active cue for a
// playback timestamp. Cues are kept sorted ascending by start time;
// the lookup first tries the previously resolved index and its
// successor before falling back to a binary search.
type Engine struct {
	mu sync.Mutex

	cues []subtitle.Cue
	// prefix maximum of cue end times; lets the search return the
	// lowest matching index even when cues overlap
	maxEnd []float64

	currentIndex int
	loading      bool
	err          error

	lastTime float64
	hasTime  bool

	// incremented per Load so a stale fetch cannot apply its result
	// over a newer load
	epoch uint64

	client   *http.Client
	logger   *logging.Logger
	onChange ChangeFunc
}

type Option func(*Engine)

func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

func WithOnChange(fn ChangeFunc) Option {
	return func(e *Engine) { e.onChange = fn }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		currentIndex: -1,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the engine's cue track from the given source. Derived
// state is reset before any work happens; when a current time is
// already known (UpdateTime ran before, including at t=0) the engine
// re-synchronizes to it as soon as the cues are in, so a cue active at
// the very start is recognized without waiting for the next tick.
//
// Load is safe to call again before a previous call returns: each call
// bumps the load epoch and a result is only applied when its epoch is
// still current.
func (e *Engine) Load(ctx context.Context, src Source) error {
	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	e.cues = nil
	e.maxEnd = nil
	e.currentIndex = -1
	e.loading = true
	e.err = nil
	e.mu.Unlock()

	var cues []subtitle.Cue
	var err error

	switch {
	case src.Cues != nil:
		cues = make([]subtitle.Cue, len(src.Cues))
		copy(cues, src.Cues)
	case src.URL != "":
		cues, err = e.fetch(ctx, src)
	case src.Content != "" || src.Format != "":
		cues = subtitle.Parse(src.Content, src.Format)
	default:
		err = ErrNoSource
	}

	e.mu.Lock()
	if epoch != e.epoch {
		// a newer load superseded this one; drop the result
		e.mu.Unlock()
		return nil
	}

	e.loading = false
	if err != nil {
		e.err = err
		e.logger.Warnw("Cue track load failed", "error", err)
		e.mu.Unlock()
		return err
	}

	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].StartTime < cues[j].StartTime
	})
	e.cues = cues
	e.maxEnd = prefixMaxEnd(cues)
	e.logger.Debugw("Cue track loaded", "cues", len(cues))

	var notify func()
	if e.hasTime {
		notify = e.applyTimeLocked(e.lastTime)
	}
	e.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

func (e *Engine) fetch(ctx context.Context, src Source) ([]subtitle.Cue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cue request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cues: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"failed to fetch cues from %s: status %s",
			src.URL,
			resp.Status,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cue response: %w", err)
	}

	format := src.Format
	if format == "" {
		format = subtitle.DetectFormat(src.URL)
	}

	return subtitle.Parse(string(body), format), nil
}

func prefixMaxEnd(cues []subtitle.Cue) []float64 {
	if len(cues) == 0 {
		return nil
	}
	out := make([]float64, len(cues))
	max := cues[0].EndTime
	for i, c := range cues {
		if c.EndTime > max {
			max = c.EndTime
		}
		out[i] = max
	}
	return out
}

// UpdateTime resolves the active cue for t and, only when the resolved
// index differs from the previous one, updates the current cue and
// fires the change notification once. Per-frame calls with an
// unchanged active cue stay silent.
func (e *Engine) UpdateTime(t float64) {
	e.mu.Lock()
	e.lastTime = t
	e.hasTime = true
	notify := e.applyTimeLocked(t)
	e.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// returns the pending notification, to run outside the lock
func (e *Engine) applyTimeLocked(t float64) func() {
	idx := e.lookupLocked(t)
	if idx == e.currentIndex {
		return nil
	}
	e.currentIndex = idx

	if e.onChange == nil {
		return nil
	}
	cb := e.onChange
	var cue *subtitle.Cue
	if idx >= 0 {
		c := e.cues[idx]
		cue = &c
	}
	return func() { cb(cue, idx) }
}

// GetCueAtTime is the pure form of UpdateTime: it resolves the active
// cue for t without mutating state or notifying. index is -1 when no
// cue is active.
func (e *Engine) GetCueAtTime(t float64) (*subtitle.Cue, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.lookupLocked(t)
	if idx < 0 {
		return nil, -1
	}
	c := e.cues[idx]
	return &c, idx
}

// lookupLocked resolves the lowest-index cue whose interval covers t.
// The previously resolved index and its immediate successor are tried
// in O(1) first, covering steady playback; a miss falls back to a
// binary search over the sorted track.
func (e *Engine) lookupLocked(t float64) int {
	n := len(e.cues)
	if n == 0 {
		return -1
	}

	if i := e.currentIndex; i >= 0 && i < n {
		if e.coversLocked(i, t) {
			return i
		}
		if i+1 < n && e.coversLocked(i+1, t) {
			return i+1
		}
	}

	return e.searchLocked(t)
}

// coversLocked reports whether cues[i] matches t and no earlier cue
// does. The interval test is end-exclusive, so a zero-duration cue
// never matches and at a shared boundary instant the later cue wins.
func (e *Engine) coversLocked(i int, t float64) bool {
	c := &e.cues[i]
	if !(c.StartTime <= t && t < c.EndTime) {
		return false
	}
	// cues before i all start at or before cues[i]; one of them still
	// covers t exactly when the prefix max end exceeds t
	return i == 0 || e.maxEnd[i-1] <= t
}

// searchLocked is the O(log n) fallback: it narrows to the cues
// starting at or before t, then finds the lowest index whose prefix
// max end exceeds t, which is exactly the first cue covering t.
func (e *Engine) searchLocked(t float64) int {
	ub := sort.Search(len(e.cues), func(i int) bool {
		return e.cues[i].StartTime > t
	})
	if ub == 0 {
		return -1
	}

	idx := sort.Search(ub, func(i int) bool {
		return e.maxEnd[i] > t
	})
	if idx == ub {
		return -1
	}
	return idx
}

// Cues returns the loaded track. Callers must treat it as read-only.
func (e *Engine) Cues() []subtitle.Cue {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cues
}

// CurrentCue returns the active cue, or nil when none is.
func (e *Engine) CurrentCue() *subtitle.Cue {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentIndex < 0 || e.currentIndex >= len(e.cues) {
		return nil
	}
	c := e.cues[e.currentIndex]
	return &c
}

// CurrentIndex returns the active cue's index, -1 when none.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentIndex
}

func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Err returns the error slot populated by a failed load, nil otherwise.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
