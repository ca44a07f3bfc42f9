package typing

import (
	"context"
	"time"

	"github.com/spotdemo4/mojo-chat/internal/clock"
	"github.com/spotdemo4/mojo-chat/internal/markdown"
)

// DefaultInterval is the delay between two revealed characters.
const DefaultInterval = 15 * time.Millisecond

// Target is the message being typed into.
type Target interface {
	// Reveal replaces the content with the given plain text and keeps it in
	// view.
	Reveal(plain string)

	// Finalize replaces the content with rendered, sanitized HTML.
	Finalize(html string)
}

type State int

const (
	StateIdle State = iota
	StateRevealing
	StateFinalizing
	StateDone
)

var stateName = map[State]string{
	StateIdle:       "idle",
	StateRevealing:  "revealing",
	StateFinalizing: "finalizing",
	StateDone:       "done",
}

func (s State) String() string {
	return stateName[s]
}

type Animator struct {
	Interval time.Duration
	Clock    clock.Clock
}

// New returns an animator typing one character per interval. An interval
// of zero or less renders the final HTML straight away.
func New(interval time.Duration, c clock.Clock) *Animator {
	if c == nil {
		c = clock.Real{}
	}

	return &Animator{
		Interval: interval,
		Clock:    c,
	}
}

// Animate types text into t and returns once t holds the final HTML. If ctx
// ends early the remaining characters are skipped, but t is still finalized.
func (a *Animator) Animate(ctx context.Context, t Target, text string) error {
	r := newRun(text)

	for r.state != StateDone {
		switch r.state {
		case StateIdle:
			r.state = StateRevealing

		case StateRevealing:
			if r.index >= len(r.plain) || a.Interval <= 0 {
				r.state = StateFinalizing
				continue
			}

			r.index++
			t.Reveal(string(r.plain[:r.index]))

			if err := a.Clock.Sleep(ctx, a.Interval); err != nil {
				r.err = err
				r.state = StateFinalizing
			}

		case StateFinalizing:
			t.Finalize(r.html)
			r.state = StateDone
		}
	}

	return r.err
}

type run struct {
	state State
	index int
	plain []rune
	html  string
	err   error
}

func newRun(text string) *run {
	html := markdown.ToHTML(text)

	return &run{
		state: StateIdle,
		plain: []rune(markdown.PlainText(html)),
		html:  html,
	}
}
