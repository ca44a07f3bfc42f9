// Package session tracks the turn count and submission state of one chat
// session.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spotdemo4/mojo-chat/internal/clock"
)

// GuardDuration is how long the duplicate-submit guard stays armed at most.
const GuardDuration = time.Second

var (
	ErrEmpty = errors.New("message is empty")
	ErrBusy  = errors.New("a message is already being answered")
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
)

var stateName = map[State]string{
	StateIdle:       "idle",
	StateSubmitting: "submitting",
}

func (s State) String() string {
	return stateName[s]
}

// Turn is one accepted submission.
type Turn struct {
	ID      string
	Number  int
	Message string
}

// First reports whether the turn opened the session. Stage blocks are only
// shown for it.
func (t Turn) First() bool {
	return t.Number == 1
}

// Session is safe for concurrent use.
//
// A submission is in flight from Begin until End. The guard is a second flag
// armed by Begin and cleared by End or by a timer, whichever comes first, so it
// is never set without a submission in flight and Begin is decided by the
// in-flight flag alone. Guarded only reports whether the first second of a turn
// has passed; it never lets a second stream start while the first is open.
type Session struct {
	mu       sync.Mutex
	clock    clock.Clock
	turns    int
	inFlight bool
	guarded  bool
	stop     func() bool
}

func New(c clock.Clock) *Session {
	if c == nil {
		c = clock.Real{}
	}

	return &Session{clock: c}
}

// Begin validates message and moves the session to StateSubmitting.
func (s *Session) Begin(message string) (Turn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Turn{}, ErrEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return Turn{}, ErrBusy
	}

	s.turns++
	s.inFlight = true
	s.guarded = true
	s.stop = s.clock.AfterFunc(GuardDuration, s.release)

	return Turn{
		ID:      uuid.NewString(),
		Number:  s.turns,
		Message: message,
	}, nil
}

// End returns the session to StateIdle. It is safe to call more than once.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false
	s.guarded = false
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.guarded = false
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return StateSubmitting
	}
	return StateIdle
}

// Guarded reports whether the duplicate-submit guard is still armed.
func (s *Session) Guarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guarded
}

// InputEnabled reports whether the input should accept a new message.
func (s *Session) InputEnabled() bool {
	return s.State() == StateIdle
}

func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}
