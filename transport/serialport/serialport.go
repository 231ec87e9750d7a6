// Package serialport opens the sensor link on a local serial device using
// go.bug.st/serial.
package serialport

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/moffa90/go-ad013/sensor"
)

// DefaultBaudRate is the factory speed of the module.
const DefaultBaudRate = 57600

// Mode returns the 8N1 line settings the sensor uses at the given speed.
func Mode(baud int) *serial.Mode {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens path at the given speed. The returned port satisfies
// sensor.Transport; its read timeout is set by the Sensor.
func Open(path string, baud int) (serial.Port, error) {
	port, err := serial.Open(path, Mode(baud))
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s at %d baud: %w", path, baud, err)
	}
	return port, nil
}

// Opener returns a sensor.PortOpener for path, for use with sensor.FindSensor.
func Opener(path string) sensor.PortOpener {
	return func(baud int) (sensor.Transport, error) {
		port, err := Open(path, baud)
		if err != nil {
			return nil, err
		}
		return port, nil
	}
}

// List returns the serial devices present on the host.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("serialport: list ports: %w", err)
	}
	return ports, nil
}
