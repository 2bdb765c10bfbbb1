package tui

import "github.com/MKhiriev/go-church-sync/internal/connection"

// collectionChangedMsg is sent after the in-memory value of a collection
// changed, whatever the source.
type collectionChangedMsg struct {
	collection string
}

type stateChangedMsg struct {
	state connection.State
}

// fallbackAvailableMsg is sent once the bounded wait elapsed while still
// connecting.
type fallbackAvailableMsg struct{}

type offlineDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

type importDoneMsg struct {
	path string
	err  error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
