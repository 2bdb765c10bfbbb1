package models

// CollectionSnapshot pairs a snapshot with the storage name of the
// collection it belongs to.
type CollectionSnapshot struct {
	Collection string   `json:"collection"`
	Snapshot   Snapshot `json:"snapshot"`
}
