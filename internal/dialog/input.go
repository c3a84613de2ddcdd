package dialog

import "strings"

// InputKind is the closed set of recognized input classes. Raw updates are
// classified once at the transport boundary and matched exhaustively after
// that.
type InputKind int

const (
	// InputText is free text typed by the user.
	InputText InputKind = iota
	// InputCommand is a slash-prefixed command token.
	InputCommand
	// InputButton is a button-press payload.
	InputButton
)

// Input is one classified inbound message.
type Input struct {
	Kind  InputKind
	Value string
}

// Text wraps free text.
func Text(v string) Input { return Input{Kind: InputText, Value: v} }

// Command wraps a command token.
func Command(v string) Input { return Input{Kind: InputCommand, Value: v} }

// Button wraps a button-press payload.
func Button(v string) Input { return Input{Kind: InputButton, Value: v} }

// Classify resolves raw message text into a tagged input.
func Classify(raw string) Input {
	if strings.HasPrefix(raw, "/") {
		return Command(raw)
	}
	return Text(raw)
}

// CancelPayload is the button payload that aborts any open flow.
const CancelPayload = "cancel"

// IsCancel reports whether the input is the out-of-band cancellation token,
// recognized in every open state.
func IsCancel(in Input) bool {
	switch in.Kind {
	case InputCommand:
		return in.Value == "/cancel"
	case InputButton:
		return in.Value == CancelPayload
	}
	return false
}
