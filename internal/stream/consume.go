package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// DefaultErrorMessage is shown for `error` frames without a message.
const DefaultErrorMessage = "An error occurred."

const readSize = 4096

// Consume reads r until io.EOF, dispatching frames to h as they complete.
// Stage frames are only dispatched when showStages is set. A `done` frame is
// advisory: reading continues until the body itself ends.
func Consume(ctx context.Context, r io.Reader, showStages bool, h Handler, log zerolog.Logger) error {
	dec := NewDecoder(log)
	defer dec.Close()

	buf := make([]byte, readSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, frame := range dec.Write(buf[:n]) {
				if err := dispatch(ctx, frame, showStages, h, log); err != nil {
					return err
				}
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read stream: %w", err)
		}
	}
}

func dispatch(ctx context.Context, frame Frame, showStages bool, h Handler, log zerolog.Logger) error {
	log.Debug().Str("type", string(frame.Type)).Msg("frame")

	switch frame.Type {

	case TypeStage1:
		if !showStages {
			return nil
		}

		var data Stage1Data
		if err := frame.Decode(&data); err != nil {
			log.Warn().Err(err).Msg("skipping stage frame")
			return nil
		}
		h.Stage1(data)

	case TypeStage2:
		if !showStages {
			return nil
		}

		var data Stage2Data
		if err := frame.Decode(&data); err != nil {
			log.Warn().Err(err).Msg("skipping stage frame")
			return nil
		}
		h.Stage2(data)

	case TypeStage3:
		if !showStages {
			return nil
		}

		var data Stage3Data
		if err := frame.Decode(&data); err != nil {
			log.Warn().Err(err).Msg("skipping stage frame")
			return nil
		}
		h.Stage3(data)

	case TypeFinalAnswer:
		var text string
		if err := frame.Decode(&text); err != nil {
			log.Warn().Err(err).Msg("skipping final answer")
			return nil
		}
		return h.FinalAnswer(ctx, text)

	case TypeError:
		message := frame.Message
		if message == "" {
			message = DefaultErrorMessage
		}
		h.ServerError(message)

	case TypeDone:
		// Reading stops when the body ends, not here

	default:
		log.Debug().Str("type", string(frame.Type)).Msg("ignoring unknown frame type")
	}

	return nil
}
