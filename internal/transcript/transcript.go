// Package transcript holds what the chat shows: messages and stage groups in
// the order they appeared.
package transcript

import (
	"slices"

	"github.com/spotdemo4/mojo-chat/internal/stage"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Entry interface {
	EntryID() string
}

// Message is a chat bubble. User messages show Text as is. Assistant messages
// show HTML once it is set and Revealed while the answer is being typed.
type Message struct {
	ID       string
	Role     Role
	Text     string
	HTML     string
	Revealed string
}

func (m *Message) EntryID() string { return m.ID }

// Final reports whether the message has its rendered form.
func (m *Message) Final() bool {
	return m.Role == RoleUser || m.HTML != ""
}

type StageBlock struct {
	stage.Block
	Fold *stage.Fold
}

// StageGroup holds the stage blocks of one turn.
type StageGroup struct {
	ID     string
	Blocks []*StageBlock
}

func (g *StageGroup) EntryID() string { return g.ID }

// Indicator is the placeholder shown while waiting for the response.
type Indicator struct{}

func (Indicator) EntryID() string { return "typing-indicator" }

// Transcript is not safe for concurrent use; the UI owns it.
type Transcript struct {
	entries  []Entry
	messages map[string]*Message
	groups   map[string]*StageGroup
}

func New() *Transcript {
	return &Transcript{
		messages: map[string]*Message{},
		groups:   map[string]*StageGroup{},
	}
}

func (t *Transcript) Entries() []Entry {
	return t.entries
}

func (t *Transcript) AddMessage(m Message) *Message {
	msg := &m
	t.messages[msg.ID] = msg
	t.append(msg)

	return msg
}

func (t *Transcript) Message(id string) (*Message, bool) {
	m, ok := t.messages[id]
	return m, ok
}

// Reveal sets the partially typed text of an assistant message.
func (t *Transcript) Reveal(id string, plain string) bool {
	m, ok := t.messages[id]
	if !ok {
		return false
	}

	m.Revealed = plain
	return true
}

// Finalize swaps in the rendered HTML. The typed text is dropped.
func (t *Transcript) Finalize(id string, html string) bool {
	m, ok := t.messages[id]
	if !ok {
		return false
	}

	m.HTML = html
	m.Revealed = ""
	return true
}

// AddStageGroup opens a new group with its first block.
func (t *Transcript) AddStageGroup(id string, b stage.Block) *StageGroup {
	g := &StageGroup{ID: id}
	g.Blocks = append(g.Blocks, newStageBlock(b))

	t.groups[id] = g
	t.append(g)

	return g
}

// AddStageBlock appends to an existing group. It reports false, and does
// nothing, when there is no such group.
func (t *Transcript) AddStageBlock(groupID string, b stage.Block) bool {
	g, ok := t.groups[groupID]
	if !ok {
		return false
	}

	g.Blocks = append(g.Blocks, newStageBlock(b))
	return true
}

// StageBlocks returns every stage block in display order.
func (t *Transcript) StageBlocks() []*StageBlock {
	blocks := []*StageBlock{}
	for _, e := range t.entries {
		if g, ok := e.(*StageGroup); ok {
			blocks = append(blocks, g.Blocks...)
		}
	}

	return blocks
}

func (t *Transcript) ShowIndicator() {
	if !t.Waiting() {
		t.append(Indicator{})
	}
}

func (t *Transcript) HideIndicator() {
	t.entries = slices.DeleteFunc(t.entries, func(e Entry) bool {
		_, ok := e.(Indicator)
		return ok
	})
}

// Waiting reports whether the indicator is showing.
func (t *Transcript) Waiting() bool {
	return slices.ContainsFunc(t.entries, func(e Entry) bool {
		_, ok := e.(Indicator)
		return ok
	})
}

// Len counts the messages, not the indicator or stage groups.
func (t *Transcript) Len() int {
	return len(t.messages)
}

func (t *Transcript) append(e Entry) {
	// Keep the indicator last
	if n := len(t.entries); n > 0 {
		if _, ok := t.entries[n-1].(Indicator); ok {
			t.entries = slices.Insert(t.entries, n-1, e)
			return
		}
	}

	t.entries = append(t.entries, e)
}

func newStageBlock(b stage.Block) *StageBlock {
	return &StageBlock{
		Block: b,
		Fold:  stage.NewFold(b.Collapsed),
	}
}
