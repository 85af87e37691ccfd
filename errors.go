package nchwc

import "fmt"

// Sentinel errors identifying the error kinds the engine can surface at
// the Conv/Pool entry points. Use errors.Is to classify a returned
// error; wrapped errors carry the offending value via fmt.Errorf's %w.
var (
	// ErrInvalidShape means a derived geometric count went negative,
	// padding exceeded the kernel's span, or a channel count violated
	// a blocking requirement.
	ErrInvalidShape = fmt.Errorf("nchwc: invalid shape")

	// ErrUnsupportedActivation means the caller asked for an activation
	// variant this build recognises syntactically but has no
	// micro-kernel or post-pass path for.
	ErrUnsupportedActivation = fmt.Errorf("nchwc: unsupported activation")

	// ErrThreadPoolFailure wraps an error forwarded from the thread
	// pool primitive, such as a worker task that panicked.
	ErrThreadPoolFailure = fmt.Errorf("nchwc: thread pool failure")
)

func invalidShapef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidShape}, args...)...)
}
