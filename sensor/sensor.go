package sensor

import (
	"io"
	"sync"

	"github.com/moffa90/go-ad013/protocol"
)

// Sensor drives one AD-013 fingerprint module over a Transport.
//
// Transactions are serialized: the transport is owned by the Sensor and a
// lock is held for the whole request/response exchange, so a Sensor is safe
// for concurrent use. The transport itself must not be used by anyone else.
type Sensor struct {
	mu        sync.Mutex
	transport Transport
	codec     *protocol.Codec
	config    Config

	timeoutApplied bool
}

// New creates a new Sensor on the given transport.
//
// Example:
//
//	port, _ := serialport.Open("/dev/ttyUSB0", 57600)
//	s := sensor.New(port,
//	    sensor.WithLogger(logger),
//	    sensor.WithReadTimeout(200*time.Millisecond),
//	)
func New(transport Transport, opts ...Option) *Sensor {
	if transport == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Sensor{
		transport: transport,
		codec:     protocol.NewCodec(cfg.DeviceID),
		config:    cfg,
	}
}

// DeviceID returns the module address used by this sensor.
func (s *Sensor) DeviceID() protocol.DeviceID {
	return s.codec.DeviceID()
}

// Close closes the transport if it implements io.Closer.
func (s *Sensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
