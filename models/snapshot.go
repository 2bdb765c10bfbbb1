// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models holds the data types shared by every layer of go-church-sync:
// records and snapshots, the fixed collection registry, stream frames exchanged
// with the remote store and bearer token claims.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is one opaque JSON object of a collection. The engine never looks
// inside a record except for its "id" field.
type Record = json.RawMessage

// Snapshot is the entire content of one collection at one instant. It is the
// unit of persistence and of network transfer; snapshots are never merged.
type Snapshot []Record

var (
	// ErrSnapshotNotArray is returned when a payload is not a JSON array.
	ErrSnapshotNotArray = errors.New("snapshot must be a JSON array")
	// ErrRecordNotObject is returned when a snapshot element is not a JSON object.
	ErrRecordNotObject = errors.New("record must be a JSON object")
	// ErrRecordMissingID is returned when a record has no non-empty string "id".
	ErrRecordMissingID = errors.New("record has no id")
	// ErrDuplicateRecordID is returned when two records of one snapshot share an id.
	ErrDuplicateRecordID = errors.New("duplicate record id")
)

// ParseSnapshot decodes data into a Snapshot and compacts every record so that
// encoding the result again yields byte-identical output.
func ParseSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrSnapshotNotArray
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	snapshot := make(Snapshot, 0, len(raw))
	for i, rec := range raw {
		var buf bytes.Buffer
		if err := json.Compact(&buf, rec); err != nil {
			return nil, fmt.Errorf("compact record %d: %w", i, err)
		}
		snapshot = append(snapshot, Record(buf.Bytes()))
	}

	return snapshot, nil
}

// MustParseSnapshot is like ParseSnapshot but panics on error. It is meant for
// package-level literals such as default seeds.
func MustParseSnapshot(data string) Snapshot {
	s, err := ParseSnapshot([]byte(data))
	if err != nil {
		panic(err)
	}
	return s
}

// MarshalJSON encodes a nil snapshot as an empty array instead of null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]json.RawMessage(s))
}

// UnmarshalJSON decodes and compacts a snapshot. See ParseSnapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSnapshot(data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Validate checks the only contract the engine relies upon: every record is a
// JSON object carrying a non-empty string id unique within the snapshot.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, rec := range s {
		id, err := recordID(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("record %d (id=%s): %w", i, id, ErrDuplicateRecordID)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// IDs returns the record ids in snapshot order. Records without a readable id
// are skipped.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for _, rec := range s {
		if id, err := recordID(rec); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clone returns a deep copy so callers cannot mutate shared record bytes.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	for i, rec := range s {
		out[i] = append(Record(nil), rec...)
	}
	return out
}

// Equal reports whether both snapshots hold the same records in the same order.
// A nil snapshot equals an empty one.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !bytes.Equal(s[i], other[i]) {
			return false
		}
	}
	return true
}

func recordID(rec Record) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil || fields == nil {
		return "", ErrRecordNotObject
	}

	rawID, ok := fields["id"]
	if !ok {
		return "", ErrRecordMissingID
	}

	var id string
	if err := json.Unmarshal(rawID, &id); err != nil || id == "" {
		return "", ErrRecordMissingID
	}
	return id, nil
}
