package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for ids that are unknown or already resolved.
	ErrNotFound = errors.New("notification not found")

	// ErrEngineStopped is returned by Schedule after Shutdown.
	ErrEngineStopped = errors.New("engine stopped")

	// ErrSinkDeliveryFailed is matched by every DeliveryError.
	ErrSinkDeliveryFailed = errors.New("sink delivery failed")
)

// DeliveryError wraps the error a sink returned for a notification.
type DeliveryError struct {
	ID  ID
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification %d: %v", e.ID, e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{ErrSinkDeliveryFailed, e.Err}
}

var _ error = (*DeliveryError)(nil)
