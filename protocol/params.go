package protocol

import "fmt"

// Params accumulates the argument bytes of one command.
//
// The capacity is fixed when the buffer is created. An append that would not
// fit is rejected as a whole and leaves the buffer unchanged.
type Params struct {
	buf []byte
}

// NewParams returns an empty buffer with MaxParamsSize capacity.
func NewParams() *Params {
	return NewParamsWithCapacity(MaxParamsSize)
}

// NewParamsWithCapacity returns an empty buffer with the given capacity,
// clamped to 0..MaxPayloadSize.
func NewParamsWithCapacity(capacity int) *Params {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > MaxPayloadSize {
		capacity = MaxPayloadSize
	}
	return &Params{buf: make([]byte, 0, capacity)}
}

// DefaultParams returns a fresh buffer pre-seeded with the factory password.
func DefaultParams() *Params {
	p := NewParams()
	pw := DefaultPassword()
	_ = p.AppendN(pw[:], len(pw))
	return p
}

// Append1 appends a single byte.
func (p *Params) Append1(v byte) error {
	if err := p.reserve(1); err != nil {
		return err
	}
	p.buf = append(p.buf, v)
	return nil
}

// Append2 appends v in big-endian byte order.
func (p *Params) Append2(v uint16) error {
	if err := p.reserve(2); err != nil {
		return err
	}
	p.buf = append(p.buf, byte(v>>8), byte(v))
	return nil
}

// AppendN appends the first n bytes of src.
func (p *Params) AppendN(src []byte, n int) error {
	if n < 0 || n > len(src) {
		return fmt.Errorf("%w: %d bytes requested from a %d byte source", ErrInvalidArgument, n, len(src))
	}
	if err := p.reserve(n); err != nil {
		return err
	}
	p.buf = append(p.buf, src[:n]...)
	return nil
}

// Reset empties the buffer without releasing its storage.
func (p *Params) Reset() {
	p.buf = p.buf[:0]
}

// Len returns the number of bytes appended so far.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.buf)
}

// Cap returns the buffer capacity.
func (p *Params) Cap() int {
	return cap(p.buf)
}

// Bytes returns a copy of the accumulated bytes.
func (p *Params) Bytes() []byte {
	if p == nil {
		return nil
	}
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	return out
}

func (p *Params) reserve(n int) error {
	if len(p.buf)+n > cap(p.buf) {
		return fmt.Errorf("%w: %d bytes used, %d requested, capacity %d",
			ErrCapacityExceeded, len(p.buf), n, cap(p.buf))
	}
	return nil
}
