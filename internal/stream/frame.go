package stream

import (
	"encoding/json"
	"fmt"
)

type Type string

const (
	TypeStage1      Type = "stage1"
	TypeStage2      Type = "stage2"
	TypeStage3      Type = "stage3"
	TypeFinalAnswer Type = "final_answer"
	TypeError       Type = "error"
	TypeDone        Type = "done"
)

// Frame is one decoded `data: ` line.
type Frame struct {
	Type    Type            `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Stage1Data is the query decomposition.
type Stage1Data struct {
	OriginalQuery string   `json:"original_query"`
	SubQueries    []string `json:"sub_queries"`
}

// Retrieval holds the chunks found for one sub-query.
type Retrieval struct {
	SubQuery string   `json:"sub_query"`
	Chunks   []string `json:"chunks"`
}

// Stage2Data lists retrievals in sub-query order.
type Stage2Data []Retrieval

// Stage3Data describes how the retrievals were integrated. FinalPrompt is
// empty when the server did not send one.
type Stage3Data struct {
	Method      string `json:"method"`
	Note        string `json:"note"`
	FinalPrompt string `json:"final_prompt,omitempty"`
}

// ParseFrame decodes the payload of a `data: ` line.
func ParseFrame(payload string) (Frame, error) {
	var f Frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return Frame{}, fmt.Errorf("parse frame: %w", err)
	}

	return f, nil
}

// Decode unmarshals the frame's data into v.
func (f Frame) Decode(v any) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("%s frame has no data", f.Type)
	}

	if err := json.Unmarshal(f.Data, v); err != nil {
		return fmt.Errorf("decode %s data: %w", f.Type, err)
	}

	return nil
}
