package domain

import "context"

// Credentials identify the bot account and the character it plays.
// They are supplied by configuration and immutable for the process lifetime.
type Credentials struct {
	Username  string
	Password  string
	Character string
}

// EventType tags an InboundEvent variant.
type EventType int

const (
	EventOther EventType = iota
	EventChat
	EventRoster
	EventClosed
)

// ChatMessage is a chat line delivered by the server.
type ChatMessage struct {
	Sender string
	Text   string
}

// InboundEvent is one event from the server, in delivery order.
// Exactly the fields for its Type are populated.
type InboundEvent struct {
	Type   EventType
	Chat   ChatMessage // EventChat
	Roster []Member    // EventRoster
	Reason string      // EventClosed
}

// Session is one live authenticated connection. Events yields inbound
// events in FIFO order until a Closed event is observed, after which the
// channel is closed and the session is dead; a new connection requires a
// new Session.
type Session interface {
	Events() <-chan InboundEvent
	Send(ctx context.Context, action OutboundAction) error
	Close() error
}

// Connector performs the login handshake and produces a live Session.
// Connect errors are classified with ErrAuthRejected, ErrProtocolMismatch
// and ErrNetworkUnavailable.
type Connector interface {
	Connect(ctx context.Context, creds Credentials) (Session, error)
}
