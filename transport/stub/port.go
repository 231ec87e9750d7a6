// Package stub provides in-memory transports for host-side testing without
// a sensor attached.
package stub

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by a closed Port.
var ErrClosed = errors.New("stub: port closed")

// Port is a scripted transport. Writes are recorded, reads are served from
// queued chunks. With nothing queued a Read behaves like a serial read that
// timed out: it returns (0, nil).
type Port struct {
	mu          sync.Mutex
	rxBuf       [][]byte
	txLog       [][]byte
	reads       int
	readTimeout time.Duration
	readErr     error
	writeErr    error
	closed      bool
}

// NewPort returns an empty Port.
func NewPort() *Port { return &Port{} }

// Queue appends chunks to be returned by successive reads.
// A chunk larger than the read buffer is split over several reads.
func (p *Port) Queue(chunks ...[]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range chunks {
		p.rxBuf = append(p.rxBuf, clone(c))
	}
}

// QueueFragmented queues data split into chunks of at most size bytes.
func (p *Port) QueueFragmented(data []byte, size int) {
	if size <= 0 {
		size = len(data)
	}
	for len(data) > size {
		p.Queue(data[:size])
		data = data[size:]
	}
	if len(data) > 0 {
		p.Queue(data)
	}
}

func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reads++
	if p.closed {
		return 0, ErrClosed
	}
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.rxBuf) == 0 {
		return 0, nil
	}

	chunk := p.rxBuf[0]
	n := copy(b, chunk)
	if n < len(chunk) {
		p.rxBuf[0] = chunk[n:]
	} else {
		p.rxBuf[0] = nil
		p.rxBuf = p.rxBuf[1:]
	}
	return n, nil
}

func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.txLog = append(p.txLog, clone(b))
	return len(b), nil
}

// SetReadTimeout records the timeout; reads never block.
func (p *Port) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = t
	return nil
}

// Close marks the port closed.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// SetReadError makes every following Read fail with err.
func (p *Port) SetReadError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

// SetWriteError makes every following Write fail with err.
func (p *Port) SetWriteError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeErr = err
}

// Writes returns a copy of every frame written so far.
func (p *Port) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.txLog))
	for i, w := range p.txLog {
		out[i] = clone(w)
	}
	return out
}

// Reads returns the number of Read calls made.
func (p *Port) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// ReadTimeout returns the last timeout set.
func (p *Port) ReadTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readTimeout
}

// Closed reports whether Close was called.
func (p *Port) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Pending returns the number of queued bytes not read yet.
func (p *Port) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.rxBuf {
		n += len(c)
	}
	return n
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
