// Package state stores per-conversation dialog sessions. It is intentionally
// transport-agnostic: callers decide what a session identifier means.
package state
