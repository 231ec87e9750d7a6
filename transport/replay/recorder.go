package replay

import (
	"io"
	"sync"
	"time"

	"github.com/moffa90/go-ad013/capture"
	"github.com/moffa90/go-ad013/protocol"
	"github.com/moffa90/go-ad013/sensor"
)

// Recorder wraps a transport and records every exchange passing through it.
// A request is paired with all bytes read until the next request.
type Recorder struct {
	mu       sync.Mutex
	inner    sensor.Transport
	tr       capture.Transcript
	request  []byte
	response []byte
}

// NewRecorder returns a Recorder on inner.
func NewRecorder(inner sensor.Transport) *Recorder {
	return &Recorder{inner: inner}
}

func (r *Recorder) Write(b []byte) (int, error) {
	n, err := r.inner.Write(b)

	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 {
		r.flush()
		r.request = append([]byte(nil), b[:n]...)
	}
	return n, err
}

func (r *Recorder) Read(b []byte) (int, error) {
	n, err := r.inner.Read(b)

	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 && r.request != nil {
		r.response = append(r.response, b[:n]...)
	}
	return n, err
}

func (r *Recorder) SetReadTimeout(t time.Duration) error {
	return r.inner.SetReadTimeout(t)
}

// Close closes the wrapped transport if it implements io.Closer.
func (r *Recorder) Close() error {
	if c, ok := r.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Transcript returns the exchanges recorded so far.
func (r *Recorder) Transcript() *capture.Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flush()

	out := &capture.Transcript{DeviceID: r.tr.DeviceID}
	for _, ex := range r.tr.Exchanges {
		out.Append(ex.Request, ex.Response)
	}
	return out
}

func (r *Recorder) flush() {
	if r.request == nil {
		return
	}
	if len(r.tr.Exchanges) == 0 && len(r.request) >= protocol.OffsetFlag {
		copy(r.tr.DeviceID[:], r.request[protocol.OffsetDeviceID:protocol.OffsetFlag])
	}
	r.tr.Append(r.request, r.response)
	r.request, r.response = nil, nil
}
