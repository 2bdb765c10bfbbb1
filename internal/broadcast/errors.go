package broadcast

import "errors"

var (
	// ErrUnavailable is returned when the multicast transport cannot be set
	// up. Constructors degrade to [Nop] on this error.
	ErrUnavailable = errors.New("broadcast transport unavailable")

	// ErrFrameTooLarge is returned when an encoded message does not fit in
	// one datagram.
	ErrFrameTooLarge = errors.New("broadcast frame too large")
)
