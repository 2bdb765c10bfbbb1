// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-church-sync/models"
)

func TestSnapshotValidator_CollectionSnapshot(t *testing.T) {
	v := NewSnapshotValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{
			name: "valid",
			obj:  models.CollectionSnapshot{Collection: "members", Snapshot: models.MustParseSnapshot(`[{"id":"1","name":"Ana"}]`)},
		},
		{
			name: "valid pointer, empty snapshot",
			obj:  &models.CollectionSnapshot{Collection: "congs", Snapshot: models.Snapshot{}},
		},
		{
			name:    "empty collection",
			obj:     models.CollectionSnapshot{Snapshot: models.Snapshot{}},
			wantErr: ErrEmptyCollection,
		},
		{
			name:    "unknown collection",
			obj:     models.CollectionSnapshot{Collection: "sermons"},
			wantErr: ErrUnknownCollection,
		},
		{
			name:    "missing id",
			obj:     models.CollectionSnapshot{Collection: "members", Snapshot: models.MustParseSnapshot(`[{"name":"Ana"}]`)},
			wantErr: ErrInvalidRecords,
		},
		{
			name:    "duplicate ids",
			obj:     models.CollectionSnapshot{Collection: "members", Snapshot: models.MustParseSnapshot(`[{"id":"1"},{"id":"1"}]`)},
			wantErr: models.ErrDuplicateRecordID,
		},
		{
			name:   "collection only skips records",
			obj:    models.CollectionSnapshot{Collection: "members", Snapshot: models.MustParseSnapshot(`[{"name":"Ana"}]`)},
			fields: []string{FieldCollection},
		},
		{
			name:    "unknown field",
			obj:     models.CollectionSnapshot{Collection: "members"},
			fields:  []string{"version"},
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSnapshotValidator_Snapshot(t *testing.T) {
	v := NewSnapshotValidator()

	assert.NoError(t, v.Validate(context.Background(), models.MustParseSnapshot(`[{"id":"a"}]`)))
	assert.ErrorIs(t, v.Validate(context.Background(), models.MustParseSnapshot(`[1]`)), ErrInvalidRecords)
}

func TestSnapshotValidator_UnsupportedType(t *testing.T) {
	err := NewSnapshotValidator().Validate(context.Background(), "members")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
