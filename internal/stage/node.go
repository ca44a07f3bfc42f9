package stage

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Content is built from nodes so every piece of server text lands in a text
// node and is never parsed as markup.

func element(a atom.Atom, class string, children ...*html.Node) *html.Node {
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

func text(s string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: s,
	}
}

func strong(s string) *html.Node {
	return element(atom.Strong, "", text(s))
}

func br() *html.Node {
	return element(atom.Br, "")
}

// Clone returns a deep copy of n, detached from any parent.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}

	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}

	return c
}
