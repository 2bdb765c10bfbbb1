package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyCollection   = errors.New("collection name is required")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidRecords    = errors.New("invalid records")
)
