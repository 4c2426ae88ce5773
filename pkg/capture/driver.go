package capture

import (
	"context"
	"errors"
)

// ErrUnavailable means no screenshot can be taken in the current context,
// for example when no browser session is open. It is not a capture fault.
var ErrUnavailable = errors.New("screenshot unavailable")

// Driver supplies PNG bytes of the current test session's visual state.
// Returning (nil, nil) is equivalent to returning ErrUnavailable.
type Driver interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// DriverFunc adapts an ordinary function to the Driver interface.
type DriverFunc func(ctx context.Context) ([]byte, error)

// Screenshot calls f(ctx).
func (f DriverFunc) Screenshot(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// Unavailable is a Driver that never has a screenshot.
var Unavailable Driver = DriverFunc(func(context.Context) ([]byte, error) {
	return nil, ErrUnavailable
})
