package models

// Stream frame operations exchanged over the remote store websocket session.
const (
	// OpSubscribe asks the server to start sending snapshots of a collection.
	OpSubscribe = "subscribe"
	// OpUnsubscribe stops snapshot delivery for a collection.
	OpUnsubscribe = "unsubscribe"
	// OpSnapshot carries the current snapshot of a collection.
	OpSnapshot = "snapshot"
	// OpError reports a failure related to one collection (e.g. unknown name).
	OpError = "error"
)

// StreamFrame is one JSON text message of the remote store stream.
type StreamFrame struct {
	Op         string   `json:"op"`
	Collection string   `json:"collection"`
	Snapshot   Snapshot `json:"snapshot,omitempty"`
	Error      string   `json:"error,omitempty"`
}
