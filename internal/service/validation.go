package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-church-sync/internal/validators"
)

// validationError maps a validator failure onto the service sentinels.
func validationError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validators.ErrUnknownCollection), errors.Is(err, validators.ErrEmptyCollection):
		return fmt.Errorf("%w: %w", ErrUnknownCollection, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
}
