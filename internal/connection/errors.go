package connection

import "errors"

var (
	// ErrFallbackUnavailable is returned by GoOffline unless the machine is
	// still connecting and the bounded wait has elapsed.
	ErrFallbackUnavailable = errors.New("offline fallback is not available")

	// ErrDisposed is returned by operations on a disposed machine.
	ErrDisposed = errors.New("connection machine disposed")
)
