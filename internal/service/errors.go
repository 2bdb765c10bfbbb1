package service

import "errors"

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrStoreClosed       = errors.New("collection store closed")

	ErrMalformedImport = errors.New("malformed import")
	ErrImportFailed    = errors.New("import failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrNoDeviceProvided        = errors.New("no device name provided")
)
