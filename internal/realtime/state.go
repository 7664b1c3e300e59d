package realtime

// State is the lifecycle of a subscriber connection:
// Connecting -> Active -> (Disconnected | Failed).
type State int32

const (
	StateConnecting State = iota
	StateActive
	StateDisconnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateDisconnected:
		return "disconnected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDisconnected || s == StateFailed
}
