// Package connection implements the process-wide connection state machine
// that gates remote pushes.
//
//	connecting --connectivity true--> online
//	connecting --wait elapsed + GoOffline--> offline
//	online <--push starts / settles + grace--> syncing
//	online, syncing --push failure, read failure, connectivity false--> offline
//	offline --connectivity true--> online (fires the regain hook)
//
// There is no terminal state. Reads are never gated; only pushes are.
package connection

// State is the connection state of the process.
type State int

const (
	Connecting State = iota
	Online
	Syncing
	Offline
)

var stateNames = [...]string{
	Connecting: "connecting",
	Online:     "online",
	Syncing:    "syncing",
	Offline:    "offline",
}

func (s State) String() string {
	if s < Connecting || s > Offline {
		return "unknown"
	}
	return stateNames[s]
}

// CanPush reports whether remote pushes are allowed in s.
func (s State) CanPush() bool {
	return s == Online || s == Syncing
}
