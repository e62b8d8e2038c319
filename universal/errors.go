package universal

import (
	"errors"
	"fmt"
)

// ErrUnsupported is matched by every error returned from a reverse
// conversion. The failure is permanent for that event; it must not be retried.
var ErrUnsupported = errors.New("unsupported conversion")

// UnsupportedError carries the reason a universal event could not be
// expressed in a backend's protocol.
type UnsupportedError struct {
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupported, e.Reason)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Unsupported returns an *UnsupportedError for reason.
func Unsupported(reason string) error {
	return &UnsupportedError{Reason: reason}
}

// IsUnsupported reports whether err came from a reverse conversion that has
// no mapping for its input.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
