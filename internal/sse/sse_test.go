package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineBufferCarriesPartialLines(t *testing.T) {
	var b LineBuffer

	assert.Empty(t, b.Write([]byte("data: {\"a\"")))
	assert.Equal(t, `data: {"a"`, b.Pending())

	lines := b.Write([]byte(":1}\n\ndata: x"))
	require.Equal(t, []string{`data: {"a":1}`, ""}, lines)
	assert.Equal(t, "data: x", b.Pending())

	assert.Equal(t, []string{"data: x"}, b.Write([]byte("\n")))
	assert.Equal(t, "", b.Pending())
}

func TestLineBufferTrimsCarriageReturn(t *testing.T) {
	var b LineBuffer

	assert.Equal(t, []string{"data: a"}, b.Write([]byte("data: a\r\ndata: b\r")))
	assert.Equal(t, []string{"data: b"}, b.Write([]byte("\n")))
}

func TestLineBufferSplitAnywhere(t *testing.T) {
	input := "data: one\n\n: ping\ndata: two\n"
	want := []string{"data: one", "", ": ping", "data: two"}

	for i := 0; i <= len(input); i++ {
		var b LineBuffer

		got := b.Write([]byte(input[:i]))
		got = append(got, b.Write([]byte(input[i:]))...)

		assert.Equal(t, want, got, "split at %d", i)
		assert.Equal(t, "", b.Pending())
	}
}

func TestData(t *testing.T) {
	tests := []struct {
		line    string
		payload string
		ok      bool
	}{
		{line: `data: {"type":"done"}`, payload: `{"type":"done"}`, ok: true},
		{line: "data: ", payload: "", ok: true},
		{line: "data:x", ok: false},
		{line: "", ok: false},
		{line: ": keepalive", ok: false},
		{line: "event: message", ok: false},
	}

	for _, tt := range tests {
		payload, ok := Data(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		if tt.ok {
			assert.Equal(t, tt.payload, payload)
		}
	}
}
