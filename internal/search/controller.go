// Package search implements the incremental search state machine shared by
// every search view: debounced dispatch, a minimum length gate and
// fallback to the full listing when the text is cleared.
//
// The controller does no I/O and owns no timers. The caller schedules a
// timer for every Tick returned by Input, hands the token back to Fire when
// it expires, runs the returned Dispatch, and reports the outcome through
// Complete. Superseded timers and superseded responses are recognised by
// their tokens and ignored.
package search

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hay-kot/scout/internal/query"
)

// Defaults for the debounce delay and the minimum search length.
const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultMinLength = 2
)

// State is the controller's position in the search cycle.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateFetching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// Kind says which query a dispatch runs.
type Kind int

const (
	// KindList restores the unfiltered listing.
	KindList Kind = iota + 1
	// KindSearch runs a name search for Dispatch.Text.
	KindSearch
)

// Tick asks the caller to call Fire(Token) after Delay.
type Tick struct {
	Token uint64
	Delay time.Duration
}

// Dispatch is a query the caller must run. Token identifies the request
// when its outcome is handed to Complete.
type Dispatch struct {
	Kind  Kind
	Text  string
	Token uint64
}

// Options configure a Controller.
type Options struct {
	Debounce  time.Duration
	MinLength int
}

// Controller is the per-view search state. It is not safe for concurrent
// use; drive it from a single goroutine (the UI loop).
type Controller struct {
	debounce  time.Duration
	minLength int

	state   State
	text    string
	results []query.Record

	timerToken   uint64 // latest debounce token issued
	requestToken uint64 // latest request token issued
	inFlight     bool   // latest request has not completed
}

// New creates a Controller. Zero options fall back to the defaults.
func New(opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	return &Controller{
		debounce:  opts.Debounce,
		minLength: opts.MinLength,
	}
}

// Mount returns the unconditional initial listing, independent of the
// debounce path.
func (c *Controller) Mount() Dispatch {
	return c.dispatch(KindList, "")
}

// Input records a text change and restarts the debounce window. Any timer
// issued before this call is superseded.
func (c *Controller) Input(text string) Tick {
	c.text = text
	c.timerToken++
	c.state = StateDebouncing
	return Tick{Token: c.timerToken, Delay: c.debounce}
}

// Fire handles an expired debounce timer. ok is false when the timer was
// superseded or the current text is below the minimum length; in the latter
// case NeedsMore reports true.
func (c *Controller) Fire(token uint64) (Dispatch, bool) {
	if token != c.timerToken || c.state != StateDebouncing {
		return Dispatch{}, false
	}

	text := strings.TrimSpace(c.text)
	n := utf8.RuneCountInString(text)

	switch {
	case n == 0:
		return c.dispatch(KindList, ""), true
	case n < c.minLength:
		c.state = c.settledState()
		return Dispatch{}, false
	default:
		return c.dispatch(KindSearch, text), true
	}
}

// Complete applies the outcome of a dispatched request. Outcomes of
// anything but the most recent dispatch are dropped and false is returned,
// so a slow stale response never overwrites a newer one.
func (c *Controller) Complete(token uint64, records []query.Record) bool {
	if token != c.requestToken {
		return false
	}

	if records == nil {
		records = []query.Record{}
	}
	c.results = records
	c.inFlight = false
	if c.state == StateFetching {
		c.state = StateIdle
	}
	return true
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Text returns the most recent input text.
func (c *Controller) Text() string {
	return c.text
}

// Results returns the result set of the latest completed request.
func (c *Controller) Results() []query.Record {
	return c.results
}

// Loading reports whether the latest dispatched request is outstanding.
func (c *Controller) Loading() bool {
	return c.inFlight
}

// NeedsMore reports whether the view should ask for more characters: the
// text is non-empty but shorter than the minimum length.
func (c *Controller) NeedsMore() bool {
	n := utf8.RuneCountInString(strings.TrimSpace(c.text))
	return n > 0 && n < c.minLength
}

// MinLength returns the configured minimum search length.
func (c *Controller) MinLength() int {
	return c.minLength
}

func (c *Controller) dispatch(kind Kind, text string) Dispatch {
	c.requestToken++
	c.inFlight = true
	c.state = StateFetching
	return Dispatch{Kind: kind, Text: text, Token: c.requestToken}
}

// settledState is where the controller rests when a timer fires without
// dispatching: still fetching if the previous request is outstanding.
func (c *Controller) settledState() State {
	if c.inFlight {
		return StateFetching
	}
	return StateIdle
}
