package chat

import (
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
)

// View is where a turn is rendered. Calls arrive in the order they have to be
// applied in.
type View interface {
	AddMessage(m transcript.Message)
	Reveal(id string, plain string)
	Finalize(id string, html string)

	AddStageGroup(groupID string, b stage.Block)
	AddStageBlock(groupID string, b stage.Block)

	ShowIndicator()
	HideIndicator()

	SetInputEnabled(enabled bool)
	ResetInput()
	Focus()
	ScrollToBottom()
}

// messageTarget types an answer into one assistant message.
type messageTarget struct {
	view View
	id   string
}

func (t messageTarget) Reveal(plain string) {
	t.view.Reveal(t.id, plain)
	t.view.ScrollToBottom()
}

func (t messageTarget) Finalize(html string) {
	t.view.Finalize(t.id, html)
}
