package domain

import "errors"

// Connect failures. Auth and protocol errors are terminal: retrying the
// same credentials against the same server cannot succeed. Network errors
// are transient and retried by the reconnection supervisor.
var (
	ErrAuthRejected       = errors.New("authentication rejected")
	ErrProtocolMismatch   = errors.New("protocol version mismatch")
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// ErrNotConnected is returned by Session.Send once the connection has
// closed.
var ErrNotConnected = errors.New("not connected")

// RejectedError is a protocol-level refusal of an outbound action, e.g.
// the party is full or the bot lacks in-game permission. It reflects a
// server-side business rule, so callers report it instead of retrying.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "rejected by server: " + e.Reason
}
