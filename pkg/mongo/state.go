package mongo

// State is the readiness of the cached connection.
// Numeric values match the driver-agnostic codes reported by health endpoints.
type State int

const (
	Disconnected  State = 0
	Connected     State = 1
	Connecting    State = 2
	Disconnecting State = 3
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case Connecting:
		return "connecting"
	case Disconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

// Readiness collapses the state into the two values exposed to API clients.
func (s State) Readiness() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}
