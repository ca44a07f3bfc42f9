package tui

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spotdemo4/mojo-chat/internal/markdown"
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/stream"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFragment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "inline", in: "**a** *b*", want: "a b"},
		{name: "breaks", in: "a\nb", want: "a\nb"},
		{name: "link", in: "[docs](https://example.com)", want: "docs <https://example.com>"},
		{name: "bare link", in: "[https://example.com](https://example.com)", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ansi.Strip(RenderFragment(markdown.ToHTML(tt.in))))
		})
	}
}

func TestRenderNode(t *testing.T) {
	b := stage.Decomposition(stream.Stage1Data{OriginalQuery: "why", SubQueries: []string{"one", "two"}})

	assert.Equal(t,
		"Original Query:\nwhy\nDecomposed Sub-queries:\n1. one\n2. two",
		ansi.Strip(RenderNode(b.Body)),
	)

	b = stage.Integration(stream.Stage3Data{Method: "m", Note: "n", FinalPrompt: "p1\np2"})
	out := ansi.Strip(RenderNode(b.Body))
	assert.Contains(t, out, "Method: m\nNote: n")
	assert.Contains(t, out, "│ p1\n│ p2")
}

func TestSinkForwardsInOrder(t *testing.T) {
	out := make(chan Msg, 10)
	s := NewSink(context.Background(), out)

	s.AddMessage(transcript.Message{ID: "1", Role: transcript.RoleUser, Text: "hi"})
	s.ShowIndicator()
	s.Reveal("2", "h")
	s.Finalize("2", "<em>h</em>")
	s.SetInputEnabled(true)
	close(out)

	types := []MsgType{}
	for msg := range out {
		types = append(types, msg.Type)
	}
	assert.Equal(t, []MsgType{MsgMessage, MsgIndicator, MsgReveal, MsgFinalize, MsgInput}, types)
}

func TestSinkGivesUpAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSink(ctx, make(chan Msg))

	// Unbuffered with no reader, so this only returns because ctx is done
	s.ScrollToBottom()
	s.Focus()
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.AddMessage(transcript.Message{ID: "u", Role: transcript.RoleUser, Text: "question"})
	c.AddStageGroup("g", stage.Decomposition(stream.Stage1Data{OriginalQuery: "q", SubQueries: []string{"sub"}}))
	c.AddStageBlock("missing", stage.Integration(stream.Stage3Data{Method: "hidden"}))
	c.AddMessage(transcript.Message{ID: "a", Role: transcript.RoleAssistant, Text: "**x**"})
	c.Reveal("a", "x")
	c.Finalize("a", markdown.ToHTML("**x** done"))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "question")
	assert.Contains(t, out, "Stage 1: Query Decomposition")
	assert.Contains(t, out, "1. sub")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "x done")

	m, ok := c.Transcript().Message("a")
	require.True(t, ok)
	assert.True(t, m.Final())
}

const hostile = "\x1b]0;pwned\x07\x1b[2J"

func assertInert(t *testing.T, out string) {
	t.Helper()

	assert.NotContains(t, out, "\x1b]")
	assert.NotContains(t, out, "\x1b[2J")
	assert.NotContains(t, out, "\x07")
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, "q", Printable("q"+hostile))
	assert.Equal(t, "a\n\tb", Printable("a\n\tb\r\x00\x7f"))
	assert.Equal(t, "héllo", Printable("héllo"))
}

func TestRenderDropsControlSequences(t *testing.T) {
	b := stage.Decomposition(stream.Stage1Data{OriginalQuery: "q" + hostile, SubQueries: []string{"s" + hostile}})
	out := RenderNode(b.Body)
	assertInert(t, out)
	assert.Contains(t, ansi.Strip(out), "q\nDecomposed")

	b = stage.Integration(stream.Stage3Data{Method: "m" + hostile, Note: "n", FinalPrompt: "p" + hostile})
	assertInert(t, RenderNode(b.Body))

	out = RenderFragment(markdown.ToHTML("**answer**" + hostile))
	assertInert(t, out)
	assert.Equal(t, "answer", ansi.Strip(out))
}

func TestConsoleDropsControlSequences(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.AddMessage(transcript.Message{ID: "u", Role: transcript.RoleUser, Text: "hi" + hostile})
	c.AddStageGroup("g", stage.Decomposition(stream.Stage1Data{OriginalQuery: hostile}))
	c.Finalize("a", markdown.ToHTML("done"+hostile))

	assertInert(t, buf.String())
}
