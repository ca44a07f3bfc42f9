package stream

import "context"

// Handler receives dispatched frames in arrival order. FinalAnswer may block;
// no further frame is dispatched until it returns.
type Handler interface {
	// Open is called once the response headers arrived with 200 OK.
	Open()

	Stage1(data Stage1Data)
	Stage2(data Stage2Data)
	Stage3(data Stage3Data)

	FinalAnswer(ctx context.Context, text string) error

	// ServerError is called for `error` frames. message is already defaulted
	// when the frame carried none.
	ServerError(message string)
}

// Funcs adapts plain functions to Handler. Nil fields are no-ops.
type Funcs struct {
	OpenFunc        func()
	Stage1Func      func(Stage1Data)
	Stage2Func      func(Stage2Data)
	Stage3Func      func(Stage3Data)
	FinalAnswerFunc func(context.Context, string) error
	ServerErrorFunc func(string)
}

func (f Funcs) Open() {
	if f.OpenFunc != nil {
		f.OpenFunc()
	}
}

func (f Funcs) Stage1(data Stage1Data) {
	if f.Stage1Func != nil {
		f.Stage1Func(data)
	}
}

func (f Funcs) Stage2(data Stage2Data) {
	if f.Stage2Func != nil {
		f.Stage2Func(data)
	}
}

func (f Funcs) Stage3(data Stage3Data) {
	if f.Stage3Func != nil {
		f.Stage3Func(data)
	}
}

func (f Funcs) FinalAnswer(ctx context.Context, text string) error {
	if f.FinalAnswerFunc != nil {
		return f.FinalAnswerFunc(ctx, text)
	}
	return nil
}

func (f Funcs) ServerError(message string) {
	if f.ServerErrorFunc != nil {
		f.ServerErrorFunc(message)
	}
}

var _ Handler = Funcs{}
