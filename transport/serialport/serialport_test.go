package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/moffa90/go-ad013/sensor"
)

func TestMode(t *testing.T) {
	m := Mode(115200)
	assert.Equal(t, 115200, m.BaudRate)
	assert.Equal(t, 8, m.DataBits)
	assert.Equal(t, serial.NoParity, m.Parity)
	assert.Equal(t, serial.OneStopBit, m.StopBits)

	assert.Equal(t, DefaultBaudRate, Mode(0).BaudRate)
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open("/dev/this-port-does-not-exist", 57600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/this-port-does-not-exist")

	var open sensor.PortOpener = Opener("/dev/this-port-does-not-exist")
	_, err = open(9600)
	assert.Error(t, err)
}

// serial.Port must keep satisfying the sensor transport contract.
var _ sensor.Transport = serial.Port(nil)
