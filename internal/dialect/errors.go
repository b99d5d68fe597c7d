package dialect

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is matched by every NotSupportedError
	ErrNotSupported = errors.New("operation not supported by platform")

	// ErrInvalidArgument reports an incomplete or malformed definition
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotSupportedError names the platform operation that cannot be rendered
type NotSupportedError struct {
	Platform string
	Op       string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("Operation '%s' is not supported by platform %s.", e.Op, e.Platform)
}

// Is makes errors.Is(err, ErrNotSupported) succeed
func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

func notSupported(platform, op string) error {
	return &NotSupportedError{Platform: platform, Op: op}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
