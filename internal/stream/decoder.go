package stream

import (
	"github.com/rs/zerolog"
	"github.com/spotdemo4/mojo-chat/internal/sse"
)

// Decoder turns raw body chunks into frames, in arrival order. Lines that are
// not `data: ` lines are skipped; data lines that fail to parse are logged and
// dropped without affecting the lines after them.
type Decoder struct {
	lines sse.LineBuffer
	log   zerolog.Logger
}

func NewDecoder(log zerolog.Logger) *Decoder {
	return &Decoder{log: log}
}

func (d *Decoder) Write(chunk []byte) []Frame {
	frames := []Frame{}

	for _, line := range d.lines.Write(chunk) {
		payload, ok := sse.Data(line)
		if !ok {
			continue
		}

		frame, err := ParseFrame(payload)
		if err != nil {
			d.log.Warn().Err(err).Str("line", line).Msg("dropping malformed frame")
			continue
		}

		frames = append(frames, frame)
	}

	return frames
}

// Close logs an unterminated line left over at end of stream. That segment is
// never parsed.
func (d *Decoder) Close() {
	if pending := d.lines.Pending(); pending != "" {
		d.log.Debug().Str("pending", pending).Msg("discarding incomplete line at end of stream")
	}
}
