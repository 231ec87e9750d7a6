package sensor

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-ad013/protocol"
)

// Sentinel errors. Use errors.Is, the typed errors below match them.
var (
	// ErrTransport reports a failed read or write on the transport
	ErrTransport = errors.New("transport error")

	// ErrTimeout reports an exhausted retry or time budget
	ErrTimeout = errors.New("timeout")

	// ErrNotImplemented reports an operation the driver does not support
	ErrNotImplemented = errors.New("not implemented")

	// ErrSensorNotFound reports that no scanned speed produced a valid reply
	ErrSensorNotFound = errors.New("sensor not found")
)

// TransportError wraps a failure of the underlying byte stream.
// The whole transaction may be retried by the caller.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) hold.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// TimeoutError indicates that no complete frame arrived within the budget.
type TimeoutError struct {
	// Operation is the command or workflow step that timed out
	Operation string

	// Attempts is the number of read attempts or polls made
	Attempts int

	// Received is the number of bytes accumulated, zero for workflow timeouts
	Received int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %d attempts (%d bytes received)",
		e.Operation, e.Attempts, e.Received)
}

// Is makes errors.Is(err, ErrTimeout) hold.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// AmbiguousStatusError indicates a status outside the documented outcomes of
// an operation. It is neither reported as success nor as a known failure.
type AmbiguousStatusError struct {
	Operation string
	Status    protocol.Status
}

func (e *AmbiguousStatusError) Error() string {
	return fmt.Sprintf("%s returned undocumented status %s (0x%02X)",
		e.Operation, e.Status, byte(e.Status))
}
