package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spotdemo4/mojo-chat/internal/markdown"
	"github.com/spotdemo4/mojo-chat/internal/session"
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/stream"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
	"github.com/spotdemo4/mojo-chat/internal/typing"
)

// renderer turns one turn's frames into view updates. The stage group is
// opened by stage 1 and carried to stages 2 and 3; without it they are
// dropped.
type renderer struct {
	view     View
	animator *typing.Animator
	turn     session.Turn
	log      zerolog.Logger

	opened bool
	group  *stage.Group
}

func (r *renderer) Open() {
	r.opened = true
	r.view.HideIndicator()
}

func (r *renderer) Stage1(data stream.Stage1Data) {
	r.group = &stage.Group{ID: "stages-" + r.turn.ID}
	r.view.AddStageGroup(r.group.ID, stage.Decomposition(data))
	r.view.ScrollToBottom()
}

func (r *renderer) Stage2(data stream.Stage2Data) {
	r.addBlock(stage.Retrieval(data))
}

func (r *renderer) Stage3(data stream.Stage3Data) {
	r.addBlock(stage.Integration(data))
}

func (r *renderer) addBlock(b stage.Block) {
	if r.group == nil {
		r.log.Debug().Str("title", b.Title).Msg("no stage group for block")
		return
	}

	r.view.AddStageBlock(r.group.ID, b)
	r.view.ScrollToBottom()
}

func (r *renderer) FinalAnswer(ctx context.Context, text string) error {
	id := uuid.NewString()
	r.view.AddMessage(transcript.Message{
		ID:   id,
		Role: transcript.RoleAssistant,
		Text: text,
	})

	err := r.animator.Animate(ctx, messageTarget{view: r.view, id: id}, text)
	r.view.ScrollToBottom()

	return err
}

func (r *renderer) ServerError(message string) {
	r.view.AddMessage(transcript.Message{
		ID:   uuid.NewString(),
		Role: transcript.RoleAssistant,
		Text: message,
		HTML: markdown.ToHTML(message),
	})
	r.view.ScrollToBottom()
}

var _ stream.Handler = (*renderer)(nil)
