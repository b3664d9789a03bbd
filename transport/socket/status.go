package socket

// State is the connection lifecycle stage.
type State int

const (
	// StateDisconnected means no connection has been attempted yet.
	StateDisconnected State = iota

	// StateConnecting means the first dial is in progress.
	StateConnecting

	// StateConnected means the connection is live.
	StateConnected

	// StateReconnecting means the connection dropped and the retry loop is
	// working to restore it.
	StateReconnecting

	// StateClosed means the owner closed the connection for good.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StatusEvent reports one state transition on the side channel.
type StatusEvent struct {
	Old State
	New State

	// Epoch identifies the physical connection; it increments on every
	// successful dial.
	Epoch int

	// Attempt counts consecutive failed dials since the last success.
	Attempt int

	// Err is the error behind a drop or failed dial, if any.
	Err error
}
