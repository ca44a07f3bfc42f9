package tui

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderFragment renders sanitized message HTML for the terminal.
func RenderFragment(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	})
	if err != nil {
		return fragment
	}

	w := &termWriter{bol: true}
	for _, n := range nodes {
		w.walk(n, TextStyle)
	}

	return strings.TrimRight(w.sb.String(), "\n")
}

// RenderNode renders a stage body for the terminal.
func RenderNode(n *html.Node) string {
	w := &termWriter{bol: true}
	w.walk(n, TextStyle)

	return strings.TrimRight(w.sb.String(), "\n")
}

type termWriter struct {
	sb  strings.Builder
	bol bool
}

// Printable drops escape sequences and control characters other than newline
// and tab, so text from the server can never drive the terminal.
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}

func (w *termWriter) text(s string, style lipgloss.Style) {
	s = Printable(s)
	if s == "" {
		return
	}

	w.sb.WriteString(style.Render(s))
	w.bol = false
}

func (w *termWriter) newline() {
	w.sb.WriteByte('\n')
	w.bol = true
}

// block starts a new line unless already at the start of one.
func (w *termWriter) block() {
	if !w.bol {
		w.newline()
	}
}

func (w *termWriter) children(n *html.Node, style lipgloss.Style) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, style)
	}
}

func (w *termWriter) walk(n *html.Node, style lipgloss.Style) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, style)
		return
	case html.ElementNode:
	default:
		w.children(n, style)
		return
	}

	switch n.DataAtom {

	case atom.Br:
		w.newline()

	case atom.Strong, atom.B:
		w.children(n, style.Bold(true))

	case atom.Em, atom.I:
		w.children(n, style.Italic(true))

	case atom.A:
		w.children(n, LinkStyle)
		if href := attr(n, "href"); href != "" && href != textContent(n) {
			w.text(" <"+href+">", SubtextStyle)
		}

	case atom.Ol:
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.DataAtom != atom.Li {
				continue
			}

			i++
			w.block()
			w.text(strconv.Itoa(i)+". ", AltTextStyle)
			w.children(c, style)
		}
		w.block()

	case atom.Pre:
		w.block()
		for _, line := range strings.Split(textContent(n), "\n") {
			w.text("│ "+line, SubtextStyle)
			w.newline()
		}

	case atom.Div, atom.P, atom.Li, atom.Ul:
		w.block()
		w.children(n, style)
		w.block()

	default:
		w.children(n, style)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
