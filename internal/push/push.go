// Package push maintains the shared real-time subscription to the seat
// events relay and decodes the notifications it delivers.
package push

import "context"

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Notification is one relay message as received on the wire.
type Notification struct {
	Channel string `json:"channel"`
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}

// Transport connects to a relay and feeds notifications to deliver until ctx
// is cancelled. Reconnecting after a network loss is the transport's job;
// every connection change is reported through notify.
type Transport interface {
	Run(ctx context.Context, deliver func(Notification), notify func(State)) error
}
