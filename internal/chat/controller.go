// Package chat sequences one user turn: it accepts or rejects the submission,
// runs the stream and always hands the input back afterwards.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spotdemo4/mojo-chat/internal/markdown"
	"github.com/spotdemo4/mojo-chat/internal/session"
	"github.com/spotdemo4/mojo-chat/internal/stream"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
	"github.com/spotdemo4/mojo-chat/internal/typing"
)

// TransportErrorMessage is shown when the stream could not be read at all.
const TransportErrorMessage = "Connection problem, please check your network and try again."

type Streamer interface {
	Stream(ctx context.Context, req stream.Request, h stream.Handler) error
}

type Controller struct {
	session  *session.Session
	streamer Streamer
	view     View
	animator *typing.Animator
	log      zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	err    error
}

func New(s *session.Session, st Streamer, v View, a *typing.Animator, log zerolog.Logger) *Controller {
	return &Controller{
		session:  s,
		streamer: st,
		view:     v,
		animator: a,
		log:      log,
	}
}

// Submit starts a turn. It returns session.ErrEmpty or session.ErrBusy
// without touching the view when the message is rejected. Otherwise the
// stream runs in the background and the returned channel closes once the
// input has been handed back.
func (c *Controller) Submit(ctx context.Context, text string) (<-chan struct{}, error) {
	turn, err := c.session.Begin(text)
	if err != nil {
		c.log.Debug().Err(err).Msg("submit rejected")
		return nil, err
	}

	log := c.log.With().Str("turn", turn.ID).Int("number", turn.Number).Logger()
	log.Info().Msg("submit")

	c.view.AddMessage(transcript.Message{
		ID:   uuid.NewString(),
		Role: transcript.RoleUser,
		Text: turn.Message,
	})
	c.view.ResetInput()
	c.view.SetInputEnabled(false)

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(ctx, turn, log)
	}()

	return done, nil
}

// Err returns why the last finished turn failed, or nil if it completed.
// A cancelled turn reports context.Canceled.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Cancel aborts the turn in flight, if any.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return false
	}

	c.cancel()
	return true
}

func (c *Controller) run(ctx context.Context, turn session.Turn, log zerolog.Logger) {
	r := &renderer{
		view:     c.view,
		animator: c.animator,
		turn:     turn,
		log:      log,
	}

	var err error
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("stream handler panicked: %v", p)
			log.Error().Err(err).Msg("turn failed")
			c.fail(r)
		}

		c.mu.Lock()
		c.err = err
		c.cancel()
		c.cancel = nil
		c.mu.Unlock()

		c.session.End()
		c.view.SetInputEnabled(true)
		c.view.Focus()
	}()

	c.view.ShowIndicator()
	c.view.ScrollToBottom()

	err = c.streamer.Stream(ctx, stream.Request{
		ID:         turn.ID,
		Message:    turn.Message,
		ShowStages: turn.First(),
	}, r)

	switch {
	case err == nil:
		log.Info().Msg("stream complete")

	case errors.Is(err, context.Canceled):
		log.Info().Msg("stream cancelled")
		if !r.opened {
			c.view.HideIndicator()
		}

	default:
		log.Error().Err(err).Msg("stream failed")
		c.fail(r)
	}
}

func (c *Controller) fail(r *renderer) {
	if !r.opened {
		c.view.HideIndicator()
	}

	c.view.AddMessage(transcript.Message{
		ID:   uuid.NewString(),
		Role: transcript.RoleAssistant,
		Text: TransportErrorMessage,
		HTML: markdown.ToHTML(TransportErrorMessage),
	})
	c.view.ScrollToBottom()
}
