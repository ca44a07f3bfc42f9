// Package sse splits a server-sent event byte stream into lines and picks out
// the `data: ` payloads. Chunk boundaries from the transport do not have to
// line up with line boundaries.
package sse

import (
	"bytes"
	"strings"
)

// DataPrefix marks a line that carries a payload.
const DataPrefix = "data: "

// LineBuffer carries an incomplete trailing line over from one Write to the
// next. It is not safe for concurrent use.
type LineBuffer struct {
	pending []byte
}

// Write appends a chunk and returns every line it completed, without the
// trailing newline. A final segment with no newline yet stays buffered.
func (b *LineBuffer) Write(chunk []byte) []string {
	b.pending = append(b.pending, chunk...)

	lines := []string{}
	for {
		i := bytes.IndexByte(b.pending, '\n')
		if i < 0 {
			break
		}

		lines = append(lines, string(bytes.TrimSuffix(b.pending[:i], []byte{'\r'})))
		b.pending = b.pending[i+1:]
	}

	// Release the consumed prefix
	if len(b.pending) == 0 {
		b.pending = nil
	}

	return lines
}

// Pending returns the buffered, incomplete segment.
func (b *LineBuffer) Pending() string {
	return string(b.pending)
}

// Data returns the payload of a `data: ` line. ok is false for any other line,
// including blank separators and comments.
func Data(line string) (payload string, ok bool) {
	return strings.CutPrefix(line, DataPrefix)
}
