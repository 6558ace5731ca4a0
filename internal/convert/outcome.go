// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "github.com/pdiddy/pdf-suite/pkg/types"

// State is the position of a Flow in its lifecycle.
type State int

const (
	Idle State = iota
	AwaitingFile
	ResolvingTool
	AwaitingFormatChoice
	Submitting
	Succeeded
	Failed
)

var stateNames = [...]string{
	Idle:                 "idle",
	AwaitingFile:         "awaiting_file",
	ResolvingTool:        "resolving_tool",
	AwaitingFormatChoice: "awaiting_format_choice",
	Submitting:           "submitting",
	Succeeded:            "succeeded",
	Failed:               "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Outcome is the result of a submission. Exactly one variant applies at a
// time: Pending, Success or Failure.
type Outcome interface {
	outcome()
}

// Pending means a request is in flight.
type Pending struct{}

// Success carries the converted file location.
type Success struct {
	FileURL  string
	FileName string
}

// Failure carries the error kind and the message shown to the user.
type Failure struct {
	Kind    types.ErrorKind
	Message string
}

func (Pending) outcome() {}
func (Success) outcome() {}
func (Failure) outcome() {}

// Err returns the failure as a *types.Error.
func (f Failure) Err() error {
	return types.NewError(f.Kind, f.Message, nil)
}
