// Package replay serves recorded transcripts as a transport and records
// live sessions into transcripts.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moffa90/go-ad013/capture"
)

var (
	// ErrClosed is returned by a closed Port
	ErrClosed = errors.New("replay: port closed")

	// ErrExhausted is returned when a command is written after the last exchange
	ErrExhausted = errors.New("replay: transcript exhausted")

	// ErrMismatch is matched by MismatchError
	ErrMismatch = errors.New("replay: unexpected request")

	// ErrUnconsumed is returned by Done when exchanges were never replayed
	ErrUnconsumed = errors.New("replay: exchanges not consumed")
)

// MismatchError reports a written frame that differs from the recording.
type MismatchError struct {
	Index int
	Line  int
	Want  []byte
	Got   []byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("replay: exchange %d (line %d): expected % X, got % X", e.Index, e.Line, e.Want, e.Got)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Port replays a transcript. Each Write must equal the next recorded request,
// after which the recorded response becomes readable. An exchange without a
// response behaves like a silent sensor.
type Port struct {
	mu          sync.Mutex
	exchanges   []*capture.Exchange
	next        int
	pending     []byte
	readTimeout time.Duration
	closed      bool

	// ChunkSize caps the bytes returned by one Read, 0 means unlimited
	ChunkSize int
}

// New returns a Port replaying tr.
func New(tr *capture.Transcript) *Port {
	return &Port{exchanges: tr.Exchanges}
}

// Open parses the transcript at path and returns a Port replaying it.
func Open(path string) (*Port, error) {
	tr, err := capture.Parse(path)
	if err != nil {
		return nil, err
	}
	return New(tr), nil
}

func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}
	if p.next >= len(p.exchanges) {
		return 0, fmt.Errorf("%w: %d exchanges replayed", ErrExhausted, p.next)
	}

	ex := p.exchanges[p.next]
	if !bytes.Equal(b, ex.Request) {
		return 0, &MismatchError{
			Index: p.next,
			Line:  ex.Line,
			Want:  ex.Request,
			Got:   append([]byte(nil), b...),
		}
	}

	p.next++
	p.pending = append(p.pending, ex.Response...)
	return len(b), nil
}

func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}

	limit := len(b)
	if p.ChunkSize > 0 && p.ChunkSize < limit {
		limit = p.ChunkSize
	}
	n := copy(b[:limit], p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// SetReadTimeout records the timeout, a replay never blocks.
func (p *Port) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = t
	return nil
}

// ReadTimeout returns the last timeout set.
func (p *Port) ReadTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readTimeout
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Remaining returns the number of exchanges not yet replayed.
func (p *Port) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.exchanges) - p.next
}

// Done reports whether every exchange was replayed.
func (p *Port) Done() error {
	if n := p.Remaining(); n > 0 {
		return fmt.Errorf("%w: %d left", ErrUnconsumed, n)
	}
	return nil
}
