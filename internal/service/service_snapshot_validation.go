package service

import (
	"context"

	"github.com/MKhiriev/go-church-sync/internal/validators"
	"github.com/MKhiriev/go-church-sync/models"
)

type SnapshotValidationService struct {
	inner     SnapshotService
	validator validators.Validator
}

func NewSnapshotValidationService() SnapshotServiceWrapper {
	return &SnapshotValidationService{
		validator: validators.NewSnapshotValidator(),
	}
}

func (v *SnapshotValidationService) Get(ctx context.Context, collection string) (models.Snapshot, error) {
	if err := v.validateCollection(ctx, collection); err != nil {
		return nil, err
	}
	return v.inner.Get(ctx, collection)
}

func (v *SnapshotValidationService) Put(ctx context.Context, collection string, snapshot models.Snapshot) error {
	cs := models.CollectionSnapshot{Collection: collection, Snapshot: snapshot}
	if err := v.validator.Validate(ctx, cs); err != nil {
		return validationError(err)
	}
	return v.inner.Put(ctx, collection, snapshot)
}

func (v *SnapshotValidationService) Subscribe(ctx context.Context, collection string, fn func(models.Snapshot)) (func(), error) {
	if err := v.validateCollection(ctx, collection); err != nil {
		return nil, err
	}
	return v.inner.Subscribe(ctx, collection, fn)
}

func (v *SnapshotValidationService) Wrap(inner SnapshotService) SnapshotService {
	v.inner = inner
	return v
}

func (v *SnapshotValidationService) validateCollection(ctx context.Context, collection string) error {
	cs := models.CollectionSnapshot{Collection: collection}
	return validationError(v.validator.Validate(ctx, cs, validators.FieldCollection))
}
