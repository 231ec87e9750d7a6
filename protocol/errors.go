package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec and the parameter buffer.
// Callers should compare with errors.Is, the returned errors usually carry detail.
var (
	// ErrInvalidArgument reports malformed caller input
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCapacityExceeded reports a parameter buffer overflow
	ErrCapacityExceeded = errors.New("parameter buffer capacity exceeded")

	// ErrIncompleteFrame reports that fewer bytes than the frame declares are available
	ErrIncompleteFrame = errors.New("incomplete frame")

	// ErrFraming reports a response that does not echo the request header
	ErrFraming = errors.New("framing error")

	// ErrChecksum reports a response whose checksum does not match its contents
	ErrChecksum = errors.New("checksum mismatch")

	// ErrInvalidPayload reports a payload of unexpected size for its command
	ErrInvalidPayload = errors.New("invalid payload")
)

// ChecksumError is returned when a framed response fails the integrity check.
// The payload of such a frame must not be used.
type ChecksumError struct {
	// Received is the checksum carried by the frame
	Received uint16

	// Calculated is the checksum computed over the received bytes
	Calculated uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: received 0x%04X, calculated 0x%04X", e.Received, e.Calculated)
}

// Is makes errors.Is(err, ErrChecksum) hold for a *ChecksumError.
func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksum
}

// DeviceError represents a valid response carrying a failure status.
type DeviceError struct {
	// Operation is the command that failed
	Operation string

	// Status is the code reported by the sensor
	Status Status
}

func (e *DeviceError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("device error: %s (0x%02X)", e.Status, byte(e.Status))
	}
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Operation, e.Status, byte(e.Status))
}

// IsDeviceError returns true if err is or wraps a DeviceError.
func IsDeviceError(err error) bool {
	var de *DeviceError
	return errors.As(err, &de)
}

// StatusOf extracts the device status from err, if it carries one.
func StatusOf(err error) (Status, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Status, true
	}
	return 0, false
}
