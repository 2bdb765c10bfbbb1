// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds input validation shared by the collection store
// and the remote store server.
//
// A Validator checks one value, optionally restricted to named fields. The
// SnapshotValidator knows collection names (the fixed registry in models)
// and the record contract of a snapshot.
package validators

import "context"

// Validator validates the provided input. Implementations return
// ErrUnsupportedType for values they do not know and ErrUnknownField for
// field names they do not know.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
