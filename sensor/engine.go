package sensor

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moffa90/go-ad013/protocol"
)

// Result is the outcome of one transaction.
type Result struct {
	// Status is the confirmation code of the ACK frame
	Status protocol.Status

	// Payload is owned by the caller, nil when the ACK carries no data
	Payload []byte
}

// Execute runs one command transaction: encode, write, read until a complete
// frame is assembled or the retry budget is spent, then validate and decode.
//
// A device status other than StatusOK is not an error at this level, it is
// returned in the Result for the caller to interpret.
//
// Example:
//
//	params, _ := protocol.BuildGenCharParams(protocol.BufferSlot1)
//	res, err := s.Execute(ctx, protocol.CmdGenChar, params)
func (s *Sensor) Execute(ctx context.Context, cmd protocol.Command, params *protocol.Params) (*Result, error) {
	resp, err := s.transact(ctx, cmd, params)
	if err != nil {
		return nil, err
	}
	return &Result{Status: resp.Status, Payload: resp.Payload}, nil
}

// ExecuteInto runs a transaction like Execute but copies the payload into dst.
// At most len(dst) bytes are copied; the number copied is returned.
func (s *Sensor) ExecuteInto(ctx context.Context, cmd protocol.Command, params *protocol.Params, dst []byte) (protocol.Status, int, error) {
	resp, err := s.transact(ctx, cmd, params)
	if err != nil {
		return 0, 0, err
	}
	return resp.Status, copy(dst, resp.Payload), nil
}

func (s *Sensor) transact(ctx context.Context, cmd protocol.Command, params *protocol.Params) (*protocol.Response, error) {
	if err := cmd.Validate(params); err != nil {
		s.config.Metrics.observe(cmd.Name, resultInvalid, 0)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}

	log := s.config.Logger.With(zap.String("command", cmd.Name))

	if !s.timeoutApplied {
		if err := s.transport.SetReadTimeout(s.config.ReadTimeout); err != nil {
			return nil, &TransportError{Op: "set read timeout", Err: err}
		}
		s.timeoutApplied = true
	}

	start := time.Now()
	frame := s.codec.Encode(cmd.Code, params)

	log.Debug("sending", zap.String("state", "sending"), zap.Int("bytes", len(frame)))
	if _, err := s.transport.Write(frame); err != nil {
		err = &TransportError{Op: "write", Err: err}
		s.fail(log, cmd, start, frame, nil, err)
		return nil, err
	}
	s.config.Metrics.sent(len(frame))

	raw, err := s.readFrame(ctx, cmd, frame, log)
	if err != nil {
		s.fail(log, cmd, start, frame, raw, err)
		return nil, err
	}

	log.Debug("validating", zap.String("state", "validating"), zap.Int("bytes", len(raw)))
	resp, err := s.codec.Decode(raw)
	if err != nil {
		s.fail(log, cmd, start, frame, raw, err)
		return nil, err
	}

	result := resultOK
	if resp.Status != protocol.StatusOK {
		result = resultDevice
	}
	s.config.Metrics.observe(cmd.Name, result, time.Since(start))

	log.Debug("done",
		zap.String("state", "done"),
		zap.Stringer("status", resp.Status),
		zap.Int("payload", len(resp.Payload)),
	)

	return resp, nil
}

// readFrame accumulates response bytes. It stops once MinFrameSize bytes are
// in and, for a header that echoes the request, once the declared frame is
// complete. Every Read counts against the retry budget.
func (s *Sensor) readFrame(ctx context.Context, cmd protocol.Command, request []byte, log *zap.Logger) ([]byte, error) {
	buf := make([]byte, protocol.DefaultResponseBufferSize)
	received := 0
	want := s.config.MinFrameSize

	for attempt := 1; attempt <= s.config.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return buf[:received], fmt.Errorf("cancelled: %w", err)
		}

		n, err := s.transport.Read(buf[received:])
		s.config.Metrics.readAttempt(n)
		received += n
		log.Debug("awaiting response",
			zap.String("state", "awaiting_header"),
			zap.Int("attempt", attempt),
			zap.Int("read", n),
			zap.Int("received", received),
		)
		if err != nil {
			return buf[:received], &TransportError{Op: "read", Err: err}
		}

		if received >= protocol.EchoPrefixSize && bytes.Equal(buf[:protocol.EchoPrefixSize], request[:protocol.EchoPrefixSize]) {
			if size, ok := protocol.FrameSize(buf[:received]); ok && size > want {
				if size > len(buf) {
					return buf[:received], fmt.Errorf("%w: response declares %d bytes, limit is %d",
						protocol.ErrFraming, size, len(buf))
				}
				want = size
			}
		}

		if received >= want {
			return buf[:received], nil
		}
	}

	return buf[:received], &TimeoutError{
		Operation: cmd.Name,
		Attempts:  s.config.Retries,
		Received:  received,
	}
}

// fail records a failed transaction. The raw bytes are dumped at debug level
// only, decoding never depends on them.
func (s *Sensor) fail(log *zap.Logger, cmd protocol.Command, start time.Time, sent, received []byte, err error) {
	s.config.Metrics.observe(cmd.Name, resultLabel(err), time.Since(start))
	log.Debug("transaction failed",
		zap.String("state", "failed"),
		zap.String("sent", hex.EncodeToString(sent)),
		zap.String("received", hex.EncodeToString(received)),
		zap.Error(err),
	)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return resultTimeout
	case errors.Is(err, protocol.ErrChecksum):
		return resultChecksum
	case errors.Is(err, protocol.ErrFraming), errors.Is(err, protocol.ErrIncompleteFrame):
		return resultFraming
	case errors.Is(err, ErrTransport):
		return resultTransport
	case errors.Is(err, protocol.ErrInvalidArgument):
		return resultInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
