package sensor

import (
	"time"

	"go.uber.org/zap"

	"github.com/moffa90/go-ad013/protocol"
)

// Config holds the sensor configuration.
type Config struct {
	// DeviceID is the module address placed in every frame
	DeviceID protocol.DeviceID

	// Password is sent by VerifyPassword and during discovery
	Password protocol.Password

	// Logger is used for logging operations (optional)
	Logger *zap.Logger

	// Metrics receives per-transaction measurements (optional)
	Metrics *Metrics

	// ReadTimeout is applied to the transport before the first transaction
	ReadTimeout time.Duration

	// Retries is the number of read attempts made while waiting for a response
	Retries int

	// MinFrameSize is the number of bytes that must arrive before decoding
	MinFrameSize int

	// Sleep is used for every delay the driver takes
	Sleep SleepFunc
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		DeviceID:     protocol.DefaultDeviceID(),
		Password:     protocol.DefaultPassword(),
		Logger:       zap.NewNop(),
		ReadTimeout:  200 * time.Millisecond,
		Retries:      5,
		MinFrameSize: protocol.MinFrameSize,
		Sleep:        ContextSleep,
	}
}

// Option is a functional option for configuring the Sensor.
type Option func(*Config)

// WithDeviceID sets the module address.
//
// Example:
//
//	s := sensor.New(port, sensor.WithDeviceID(protocol.DeviceID{0x00, 0x00, 0x00, 0x01}))
func WithDeviceID(id protocol.DeviceID) Option {
	return func(c *Config) {
		c.DeviceID = id
	}
}

// WithPassword sets the handshake password.
func WithPassword(pw protocol.Password) Option {
	return func(c *Config) {
		c.Password = pw
	}
}

// WithLogger sets a zap logger for sensor operations.
//
// Example:
//
//	logger, _ := zap.NewDevelopment()
//	s := sensor.New(port, sensor.WithLogger(logger))
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithMetrics records every transaction in m.
//
// Example:
//
//	m := sensor.NewMetrics(prometheus.DefaultRegisterer)
//	s := sensor.New(port, sensor.WithMetrics(m))
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithReadTimeout sets the per-read timeout of the transport.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithRetries sets the number of read attempts per transaction.
//
// Example:
//
//	s := sensor.New(port, sensor.WithRetries(10))
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries > 0 {
			c.Retries = retries
		}
	}
}

// WithMinFrameSize sets how many bytes must be received before a response is decoded.
func WithMinFrameSize(size int) Option {
	return func(c *Config) {
		if size >= protocol.MinFrameSize && size <= protocol.DefaultResponseBufferSize {
			c.MinFrameSize = size
		}
	}
}

// WithSleep replaces the function used for delays. Tests use it to run
// polling loops without real time passing.
func WithSleep(sleep SleepFunc) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}
