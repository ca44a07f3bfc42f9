package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/spotdemo4/mojo-chat/internal/chat"
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
)

// Console renders a turn as plain scrolling output for non-interactive use.
// Stage blocks are printed expanded and answers are printed once final.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	log *transcript.Transcript
}

func NewConsole(w io.Writer) *Console {
	return &Console{
		w:   w,
		log: transcript.New(),
	}
}

// Transcript returns everything printed so far.
func (c *Console) Transcript() *transcript.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

func (c *Console) AddMessage(m transcript.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.AddMessage(m)

	switch {
	case m.Role == transcript.RoleUser:
		fmt.Fprintln(c.w, UserStyle.Render(Printable(m.Text)))
	case m.HTML != "":
		fmt.Fprintln(c.w, RenderFragment(m.HTML))
	}
}

func (c *Console) Reveal(id string, plain string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Reveal(id, plain)
}

func (c *Console) Finalize(id string, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Finalize(id, html)
	fmt.Fprintln(c.w, RenderFragment(html))
}

func (c *Console) AddStageGroup(groupID string, b stage.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.AddStageGroup(groupID, b)
	c.printStage(b)
}

func (c *Console) AddStageBlock(groupID string, b stage.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.log.AddStageBlock(groupID, b) {
		c.printStage(b)
	}
}

func (c *Console) printStage(b stage.Block) {
	header := fmt.Sprintf("%s %s", b.Icon, AccentTextStyle.Bold(true).Render(b.Title))
	fmt.Fprintln(c.w, StageStyle.Render(header+"\n"+RenderNode(b.Body)))
}

func (c *Console) ShowIndicator() {}

func (c *Console) HideIndicator() {}

func (c *Console) SetInputEnabled(bool) {}

func (c *Console) ResetInput() {}

func (c *Console) Focus() {}

func (c *Console) ScrollToBottom() {}

var _ chat.View = (*Console)(nil)
