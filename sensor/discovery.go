package sensor

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/moffa90/go-ad013/protocol"
)

// settleDelay is waited after (re)opening the link before the handshake.
const settleDelay = 100 * time.Millisecond

var scanSpeeds = [...]int{115200, 57600, 38400, 19200, 9600}

// ScanSpeeds returns the baud rates FindSensor tries, fastest first.
func ScanSpeeds() []int {
	out := make([]int, len(scanSpeeds))
	copy(out, scanSpeeds[:])
	return out
}

// FindSensor opens the link and verifies the configured password.
//
// With baud > 0 only that speed is used. Otherwise every speed of
// ScanSpeeds is tried in order and the first one yielding a valid reply
// wins. A valid reply carrying a failure status (a wrong password) ends the
// scan with a *protocol.DeviceError, since the speed is then known to be
// right. ErrSensorNotFound is returned when no speed answers.
//
// The returned Sensor owns the opened transport.
//
// Example:
//
//	s, baud, err := sensor.FindSensor(ctx, serialport.Opener("/dev/ttyUSB0"), 0,
//	    sensor.WithLogger(logger))
func FindSensor(ctx context.Context, open PortOpener, baud int, opts ...Option) (*Sensor, int, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.Logger

	speeds := ScanSpeeds()
	if baud > 0 {
		speeds = []int{baud}
	}

	var lastErr error
	for _, speed := range speeds {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("cancelled: %w", err)
		}

		log.Debug("probing speed", zap.Int("baud", speed))
		transport, err := open(speed)
		if err != nil {
			lastErr = &TransportError{Op: "open", Err: err}
			log.Debug("open failed", zap.Int("baud", speed), zap.Error(err))
			continue
		}

		if err := cfg.Sleep(ctx, settleDelay); err != nil {
			closeTransport(transport)
			return nil, 0, fmt.Errorf("cancelled: %w", err)
		}

		s := New(transport, opts...)
		err = s.Handshake(ctx)
		if err == nil {
			log.Info("sensor found", zap.Int("baud", speed))
			return s, speed, nil
		}

		closeTransport(transport)
		if protocol.IsDeviceError(err) {
			log.Warn("sensor rejected handshake", zap.Int("baud", speed), zap.Error(err))
			return nil, speed, err
		}

		log.Debug("speed not supported", zap.Int("baud", speed), zap.Error(err))
		lastErr = err
	}

	log.Warn("no sensor answered", zap.Ints("speeds", speeds))
	if lastErr == nil {
		return nil, 0, ErrSensorNotFound
	}
	return nil, 0, fmt.Errorf("%w: %w", ErrSensorNotFound, lastErr)
}

func closeTransport(t Transport) {
	if c, ok := t.(io.Closer); ok {
		_ = c.Close()
	}
}
