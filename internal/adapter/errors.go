package adapter

import "errors"

var (
	// ErrPermissionDenied is returned for 401 and 403 responses.
	ErrPermissionDenied = errors.New("permission denied by remote store")
	// ErrBadRequest is returned when the remote store rejects a payload.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound is returned when the remote store does not know the collection.
	ErrNotFound = errors.New("not found")
	// ErrRemoteUnavailable covers every other transport or server failure.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrRemoteRejected wraps an error frame received on the stream.
	ErrRemoteRejected = errors.New("remote store rejected subscription")
	// ErrInvalidAddress is returned by NewRemoteClient for a malformed address.
	ErrInvalidAddress = errors.New("invalid remote address")
)
