// Package utils provides general-purpose helpers used across go-church-sync:
// typed context keys, JSON response writing, the resty HTTP client wrapper,
// JWT device token generation and validation, and UUID generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// DeviceCtxKey is the key under which the auth middleware stores the device
// name of a verified bearer token.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.DeviceCtxKey, "secretaria")
var DeviceCtxKey = contextKey("device")

// GetDeviceFromContext retrieves the device name from the context.
//
// ok is false when the value is missing, has an unexpected type or is empty.
func GetDeviceFromContext(ctx context.Context) (string, bool) {
	device, ok := ctx.Value(DeviceCtxKey).(string)
	return device, ok && device != ""
}
