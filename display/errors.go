package display

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by operations that need a Ready display.
	ErrNotInitialized = errors.New("display not initialized")
	// ErrHardware wraps every failure reported by the Protocol.
	ErrHardware = errors.New("display hardware error")
)

// InvalidDataSizeError is returned when a packed buffer does not match the
// panel.
type InvalidDataSizeError struct {
	Expected int
	Actual   int
}

func (e *InvalidDataSizeError) Error() string {
	return fmt.Sprintf("invalid data size: expected %d bytes, got %d", e.Expected, e.Actual)
}

func hardwareError(call string, err error) error {
	return fmt.Errorf("%w: %s = %w", ErrHardware, call, err)
}
