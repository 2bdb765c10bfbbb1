package config

import "errors"

// Validation errors returned when a configuration group is incomplete or
// invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an empty cache namespace).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates an empty or in-memory DSN where a
	// durable one is required.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing listen address or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAdapterConfigs indicates invalid remote store client settings.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidSyncConfigs indicates non-positive state machine timings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidBroadcastConfigs indicates an unknown broadcast mode or a
	// missing group address.
	ErrInvalidBroadcastConfigs = errors.New("invalid broadcast configuration")
	// ErrInvalidAuthConfigs indicates a missing token sign key or issuer.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)
