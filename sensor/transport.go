package sensor

import (
	"io"
	"time"
)

// Transport is the byte stream connected to the sensor.
//
// Read returns whatever bytes are available, possibly none, and must not block
// longer than the configured read timeout. A serial port from go.bug.st/serial
// satisfies this interface.
type Transport interface {
	io.ReadWriter

	// SetReadTimeout bounds every subsequent Read
	SetReadTimeout(t time.Duration) error
}

// PortOpener opens the transport at the given speed. It is used by FindSensor
// to re-initialise the link for every baud rate tried.
type PortOpener func(baud int) (Transport, error)
