package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-church-sync/models"
)

const (
	FieldCollection = "collection"
	FieldRecords    = "records"
)

type SnapshotValidator struct {
}

func NewSnapshotValidator() Validator {
	return &SnapshotValidator{}
}

// Validate accepts models.CollectionSnapshot (fields "collection" and
// "records", both by default) and models.Snapshot (records only).
func (v *SnapshotValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CollectionSnapshot:
		return v.validateCollectionSnapshot(ctx, value, fields...)
	case *models.CollectionSnapshot:
		return v.validateCollectionSnapshot(ctx, *value, fields...)

	case models.Snapshot:
		return validateRecords(value)
	case *models.Snapshot:
		return validateRecords(*value)

	default:
		return ErrUnsupportedType
	}
}

func (v *SnapshotValidator) validateCollectionSnapshot(_ context.Context, cs models.CollectionSnapshot, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCollection, FieldRecords}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldCollection:
			err = validateCollection(cs.Collection)
		case FieldRecords:
			err = validateRecords(cs.Snapshot)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func validateCollection(name string) error {
	if name == "" {
		return ErrEmptyCollection
	}
	if _, ok := models.LookupCollection(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return nil
}

func validateRecords(snapshot models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecords, err)
	}
	return nil
}
