package state

import (
	"context"
	"time"
)

// State identifies a finite-state-machine step used in conversations.
type State string

// StateNone indicates there is no active conversation with the user.
const StateNone State = ""

// Session stores the dialog state and the field bag accumulated so far for
// one conversation. Field values are kept as strings so the session survives
// JSON round-trips through durable backends unchanged.
type Session struct {
	State   State             `json:"state"`
	Fields  map[string]string `json:"fields,omitempty"`
	Touched time.Time         `json:"touched"`
}

// Open reports whether a flow is in progress.
func (s Session) Open() bool { return s.State != StateNone }

// Field returns a bag value, empty when absent.
func (s Session) Field(key string) string {
	if s.Fields == nil {
		return ""
	}
	return s.Fields[key]
}

// With returns a copy of the session with one field replaced. The receiver's
// bag is never mutated, which keeps state machine steps free of aliasing.
func (s Session) With(key, value string) Session {
	fields := make(map[string]string, len(s.Fields)+1)
	for k, v := range s.Fields {
		fields[k] = v
	}
	fields[key] = value
	s.Fields = fields
	return s
}

// Next returns a copy of the session advanced to the given state.
func (s Session) Next(st State) Session {
	s.State = st
	return s
}

// Manager is the per-conversation session store. One conversation has at
// most one open flow; Set replaces the whole record (last-writer-wins).
type Manager interface {
	// Get returns the session for a conversation, or a closed session with
	// an empty bag when none exists.
	Get(ctx context.Context, sessionID int64) (Session, error)
	// Set replaces the session record atomically.
	Set(ctx context.Context, sessionID int64, s Session) error
	// Clear resets the conversation to the no-session default. Clearing an
	// absent session is a no-op.
	Clear(ctx context.Context, sessionID int64) error
}
