package transcript

import (
	"fmt"
	"io"
	"strings"

	"github.com/spotdemo4/mojo-chat/internal/stage"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const style = `body{font-family:sans-serif;background:#1e1e2e;color:#cdd6f4;max-width:48rem;margin:auto}
.message{margin:1rem 0}.message.user .message-content{background:#313244;padding:.5rem 1rem;border-radius:8px}
.thinking-stage summary{cursor:pointer}.thinking-stage pre{white-space:pre-wrap;word-wrap:break-word}
a{color:#89dceb}`

// WriteHTML writes the transcript as a standalone page. Stage blocks become
// <details> elements so they still fold without scripts.
func (t *Transcript) WriteHTML(w io.Writer, title string) error {
	container := el(atom.Div, "chat-container")
	container.Attr = append(container.Attr, html.Attribute{Key: "id", Val: "chatContainer"})

	for _, e := range t.entries {
		switch e := e.(type) {
		case *Message:
			n, err := messageNode(e)
			if err != nil {
				return err
			}
			container.AppendChild(n)

		case *StageGroup:
			container.AppendChild(groupNode(e))
		}
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := el(atom.Head, "")
	meta := el(atom.Meta, "")
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	head.AppendChild(el(atom.Title, "", txt(title)))
	head.AppendChild(el(atom.Style, "", txt(style)))

	body := el(atom.Body, "", container)
	doc.AppendChild(el(atom.Html, "", head, body))

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render transcript: %w", err)
	}

	return nil
}

func messageNode(m *Message) (*html.Node, error) {
	content := el(atom.Div, "message-content")

	switch {
	case m.Role == RoleUser:
		content.AppendChild(txt(m.Text))

	case m.HTML != "":
		nodes, err := html.ParseFragment(strings.NewReader(m.HTML), el(atom.Div, ""))
		if err != nil {
			return nil, fmt.Errorf("parse message %s: %w", m.ID, err)
		}
		for _, n := range nodes {
			content.AppendChild(n)
		}

	default:
		content.AppendChild(txt(m.Revealed))
	}

	return el(atom.Div, "message "+string(m.Role), content), nil
}

func groupNode(g *StageGroup) *html.Node {
	content := el(atom.Div, "message-content thinking-content")

	for _, b := range g.Blocks {
		summary := el(atom.Summary, "thinking-stage-header",
			el(atom.Span, "thinking-stage-icon", txt(b.Icon)),
			txt(" "),
			el(atom.Span, "thinking-stage-title", txt(b.Title)),
		)

		block := el(atom.Details, "thinking-stage",
			summary,
			el(atom.Div, "thinking-stage-body", stage.Clone(b.Body)),
		)
		if !b.Fold.Collapsed() {
			block.Attr = append(block.Attr, html.Attribute{Key: "open"})
		}

		content.AppendChild(block)
	}

	return el(atom.Div, "message assistant thinking-message", content)
}

func el(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}

	for _, c := range children {
		n.AppendChild(c)
	}

	return n
}

func txt(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
