package tui

import (
	"context"

	"github.com/spotdemo4/mojo-chat/internal/chat"
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
)

// Sink forwards view updates to the program in order. Sends give up once ctx
// is done so a turn never blocks on a program that has exited.
type Sink struct {
	ctx    context.Context
	output chan<- Msg
}

func NewSink(ctx context.Context, output chan<- Msg) *Sink {
	return &Sink{
		ctx:    ctx,
		output: output,
	}
}

func (s *Sink) send(msg Msg) {
	select {
	case s.output <- msg:
	case <-s.ctx.Done():
	}
}

func (s *Sink) AddMessage(m transcript.Message) {
	s.send(Msg{Type: MsgMessage, ID: m.ID, Role: m.Role, Text: m.Text, HTML: m.HTML})
}

func (s *Sink) Reveal(id string, plain string) {
	s.send(Msg{Type: MsgReveal, ID: id, Text: plain})
}

func (s *Sink) Finalize(id string, html string) {
	s.send(Msg{Type: MsgFinalize, ID: id, HTML: html})
}

func (s *Sink) AddStageGroup(groupID string, b stage.Block) {
	s.send(Msg{Type: MsgStageGroup, ID: groupID, Block: b})
}

func (s *Sink) AddStageBlock(groupID string, b stage.Block) {
	s.send(Msg{Type: MsgStageBlock, ID: groupID, Block: b})
}

func (s *Sink) ShowIndicator() {
	s.send(Msg{Type: MsgIndicator, Enabled: true})
}

func (s *Sink) HideIndicator() {
	s.send(Msg{Type: MsgIndicator, Enabled: false})
}

func (s *Sink) SetInputEnabled(enabled bool) {
	s.send(Msg{Type: MsgInput, Enabled: enabled})
}

func (s *Sink) ResetInput() {
	s.send(Msg{Type: MsgResetInput})
}

func (s *Sink) Focus() {
	s.send(Msg{Type: MsgFocus})
}

func (s *Sink) ScrollToBottom() {
	s.send(Msg{Type: MsgScroll})
}

var _ chat.View = (*Sink)(nil)
