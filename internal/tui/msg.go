package tui

import (
	"github.com/spotdemo4/mojo-chat/internal/stage"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
)

type MsgType int

const (
	MsgMessage MsgType = iota
	MsgReveal
	MsgFinalize
	MsgStageGroup
	MsgStageBlock
	MsgIndicator
	MsgInput
	MsgResetInput
	MsgFocus
	MsgScroll
)

var stateName = map[MsgType]string{
	MsgMessage:    "message",
	MsgReveal:     "reveal",
	MsgFinalize:   "finalize",
	MsgStageGroup: "stage group",
	MsgStageBlock: "stage block",
	MsgIndicator:  "indicator",
	MsgInput:      "input",
	MsgResetInput: "reset input",
	MsgFocus:      "focus",
	MsgScroll:     "scroll",
}

func (ss MsgType) String() string {
	return stateName[ss]
}

// Msg is one view update sent from a running turn to the program.
type Msg struct {
	Type MsgType

	ID      string
	Role    transcript.Role
	Text    string
	HTML    string
	Block   stage.Block
	Enabled bool
}

// Input is sent from the program to whoever runs the turns.
type Input struct {
	Text   string
	Cancel bool
}
