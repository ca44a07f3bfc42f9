// Package stage builds the collapsible blocks that show the backend's three
// pipeline stages: query decomposition, retrieval and integration.
package stage

import (
	"strconv"

	"github.com/spotdemo4/mojo-chat/internal/stream"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ChunkLimit is the number of characters of a retrieved chunk shown before
// it is cut off.
const ChunkLimit = 150

const ellipsis = "..."

type Kind int

const (
	KindDecomposition Kind = iota + 1
	KindRetrieval
	KindIntegration
)

type Block struct {
	Kind  Kind
	Title string
	Icon  string

	// Body is shared and must not be mutated once the block is built.
	Body *html.Node

	Collapsed bool
}

// Group identifies the container one turn's blocks are appended to. It is
// created with the first stage block and handed on to the later ones.
type Group struct {
	ID string
}

func Decomposition(data stream.Stage1Data) Block {
	list := element(atom.Ol, "sub-queries-list")
	for _, q := range data.SubQueries {
		list.AppendChild(element(atom.Li, "", text(q)))
	}

	body := element(atom.Div, "stage-content",
		element(atom.Div, "original-query",
			strong("Original Query:"),
			br(),
			text(data.OriginalQuery),
		),
		element(atom.Div, "sub-queries-title", strong("Decomposed Sub-queries:")),
		list,
	)

	return Block{
		Kind:      KindDecomposition,
		Title:     "Stage 1: Query Decomposition",
		Icon:      "🧩",
		Body:      body,
		Collapsed: false,
	}
}

func Retrieval(data stream.Stage2Data) Block {
	body := element(atom.Div, "stage-content")

	for i, r := range data {
		chunks := element(atom.Div, "chunks-list")
		for j, chunk := range r.Chunks {
			chunks.AppendChild(element(atom.Div, "chunk-item",
				element(atom.Span, "chunk-number", text(strconv.Itoa(j+1)+". ")),
				text(Truncate(chunk)),
			))
		}

		body.AppendChild(element(atom.Div, "retrieval-block",
			element(atom.Div, "retrieval-query",
				strong("Sub-query "+strconv.Itoa(i+1)+": "),
				text(r.SubQuery),
			),
			element(atom.Div, "chunks-title", text("Retrieved Chunks:")),
			chunks,
		))
	}

	return Block{
		Kind:      KindRetrieval,
		Title:     "Stage 2: Individual Retrieval",
		Icon:      "🔍",
		Body:      body,
		Collapsed: true,
	}
}

func Integration(data stream.Stage3Data) Block {
	body := element(atom.Div, "stage-content",
		element(atom.Div, "", strong("Method: "), text(data.Method)),
		element(atom.Div, "", strong("Note: "), text(data.Note)),
	)

	if data.FinalPrompt != "" {
		body.AppendChild(element(atom.Div, "final-prompt",
			element(atom.Div, "sub-queries-title", strong("Final Prompt Sent to LLM:")),
			element(atom.Pre, "", text(data.FinalPrompt)),
		))
	}

	return Block{
		Kind:      KindIntegration,
		Title:     "Stage 3: Final Integration",
		Icon:      "🎯",
		Body:      body,
		Collapsed: true,
	}
}

// Truncate shortens chunk to ChunkLimit characters followed by an ellipsis.
// Shorter chunks are returned unchanged.
func Truncate(chunk string) string {
	runes := []rune(chunk)
	if len(runes) <= ChunkLimit {
		return chunk
	}

	return string(runes[:ChunkLimit]) + ellipsis
}
