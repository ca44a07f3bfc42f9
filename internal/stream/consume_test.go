package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
	err    error
}

func (r *recorder) handler() Funcs {
	return Funcs{
		OpenFunc: func() {
			r.events = append(r.events, "open")
		},
		Stage1Func: func(d Stage1Data) {
			r.events = append(r.events, fmt.Sprintf("stage1 %s %v", d.OriginalQuery, d.SubQueries))
		},
		Stage2Func: func(d Stage2Data) {
			r.events = append(r.events, fmt.Sprintf("stage2 %d", len(d)))
		},
		Stage3Func: func(d Stage3Data) {
			r.events = append(r.events, fmt.Sprintf("stage3 %s", d.Method))
		},
		FinalAnswerFunc: func(_ context.Context, text string) error {
			r.events = append(r.events, "answer "+text)
			return r.err
		},
		ServerErrorFunc: func(message string) {
			r.events = append(r.events, "error "+message)
		},
	}
}

func frames(lines ...string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString("data: " + l + "\n\n")
	}
	return sb.String()
}

func consume(t *testing.T, r io.Reader, showStages bool) (*recorder, error) {
	t.Helper()

	rec := &recorder{}
	err := Consume(context.Background(), r, showStages, rec.handler(), zerolog.Nop())
	return rec, err
}

func TestConsumeDispatchesInOrder(t *testing.T) {
	body := frames(
		`{"type":"stage1","data":{"original_query":"q","sub_queries":["a","b"]}}`,
		`{"type":"stage2","data":[{"sub_query":"a","chunks":["x"]},{"sub_query":"b","chunks":[]}]}`,
		`{"type":"stage3","data":{"method":"concat","note":"n"}}`,
		`{"type":"final_answer","data":"hi"}`,
		`{"type":"done"}`,
	)

	rec, err := consume(t, iotest.OneByteReader(strings.NewReader(body)), true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"stage1 q [a b]",
		"stage2 2",
		"stage3 concat",
		"answer hi",
	}, rec.events)
}

func TestConsumeSuppressesStages(t *testing.T) {
	body := frames(
		`{"type":"stage1","data":{"original_query":"q","sub_queries":["a"]}}`,
		`{"type":"stage2","data":[]}`,
		`{"type":"stage3","data":{"method":"m","note":"n"}}`,
		`{"type":"final_answer","data":"hi"}`,
	)

	rec, err := consume(t, strings.NewReader(body), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"answer hi"}, rec.events)
}

func TestConsumeDoneIsAdvisory(t *testing.T) {
	body := frames(
		`{"type":"done"}`,
		`{"type":"final_answer","data":"late"}`,
	)

	rec, err := consume(t, strings.NewReader(body), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"answer late"}, rec.events)
}

func TestConsumeSkipsBadFrames(t *testing.T) {
	body := "data: {oops\n\n" +
		": comment\n" +
		"event: message\n" +
		frames(
			`{"type":"stage2","data":{"not":"a list"}}`,
			`{"type":"final_answer"}`,
			`{"type":"mystery","data":1}`,
			`{"type":"final_answer","data":"ok"}`,
		)

	rec, err := consume(t, strings.NewReader(body), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"answer ok"}, rec.events)
}

func TestConsumeServerError(t *testing.T) {
	body := frames(
		`{"type":"error","message":"backend down"}`,
		`{"type":"error"}`,
	)

	rec, err := consume(t, strings.NewReader(body), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"error backend down", "error " + DefaultErrorMessage}, rec.events)
}

func TestConsumeDropsUnterminatedLine(t *testing.T) {
	rec, err := consume(t, strings.NewReader(`data: {"type":"final_answer","data":"cut"}`), true)
	require.NoError(t, err)
	assert.Empty(t, rec.events)
}

func TestConsumeReadError(t *testing.T) {
	reset := errors.New("connection reset")
	r := io.MultiReader(
		strings.NewReader(frames(`{"type":"final_answer","data":"partial"}`)),
		iotest.ErrReader(reset),
	)

	rec, err := consume(t, r, true)
	require.ErrorIs(t, err, reset)
	assert.Equal(t, []string{"answer partial"}, rec.events)
}

func TestConsumeStopsOnHandlerError(t *testing.T) {
	stop := errors.New("stop")
	body := frames(
		`{"type":"final_answer","data":"one"}`,
		`{"type":"final_answer","data":"two"}`,
	)

	rec := &recorder{err: stop}
	err := Consume(context.Background(), strings.NewReader(body), true, rec.handler(), zerolog.Nop())
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"answer one"}, rec.events)
}
