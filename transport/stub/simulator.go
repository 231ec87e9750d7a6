package stub

import (
	"encoding/binary"
	"sync"

	"github.com/moffa90/go-ad013/protocol"
)

// Simulator answers command frames the way an AD-013 module does.
// The exported fields script its behaviour and may be set before use.
type Simulator struct {
	*Port

	// Password expected by VerifyPassword
	Password protocol.Password

	// NoFingerPolls is how many GetImage calls answer StatusNoFinger
	NoFingerPolls int

	// ImageStatus answers GetImage once a finger is present
	ImageStatus protocol.Status

	// GenCharStatus answers GenChar
	GenCharStatus protocol.Status

	// Match answers a Search with a hit, nil answers StatusFingerNotFound
	Match *protocol.SearchResult

	// ChunkSize fragments every answer into reads of at most this size
	ChunkSize int

	// Silent drops every request without answering
	Silent bool

	// CorruptReplies is how many answers go out with a broken checksum
	CorruptReplies int

	codec    *protocol.Codec
	mu       sync.Mutex
	requests []Request
}

// Request is a command received by the Simulator.
type Request struct {
	Code   byte
	Params []byte
}

// NewSimulator returns a Simulator with factory settings: default address,
// default password, finger present, every command succeeding and an empty
// template database.
func NewSimulator() *Simulator {
	return NewSimulatorWithID(protocol.DefaultDeviceID())
}

// NewSimulatorWithID returns a Simulator answering as the given address.
func NewSimulatorWithID(id protocol.DeviceID) *Simulator {
	return &Simulator{
		Port:     NewPort(),
		Password: protocol.DefaultPassword(),
		codec:    protocol.NewCodec(id),
	}
}

// Write receives one command frame and queues the answer.
func (s *Simulator) Write(b []byte) (int, error) {
	n, err := s.Port.Write(b)
	if err != nil {
		return n, err
	}

	req, err := s.codec.Decode(b)
	if err != nil {
		// A real module ignores frames it cannot parse.
		return n, nil
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{Code: byte(req.Status), Params: req.Payload})
	silent := s.Silent
	corrupt := s.CorruptReplies > 0
	if corrupt && !silent {
		s.CorruptReplies--
	}
	s.mu.Unlock()

	if silent {
		return n, nil
	}

	status, payload := s.answer(byte(req.Status), req.Payload)
	frame := s.codec.EncodeResponse(status, payload)
	if corrupt {
		frame[len(frame)-1] ^= 0xFF
	}
	s.QueueFragmented(frame, s.ChunkSize)
	return n, nil
}

func (s *Simulator) answer(code byte, params []byte) (protocol.Status, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch code {
	case protocol.CodeVerifyPassword:
		if len(params) != protocol.PasswordSize || protocol.Password(params) != s.Password {
			return protocol.StatusPasswordError, nil
		}
		return protocol.StatusOK, nil

	case protocol.CodeGetImage:
		if s.NoFingerPolls > 0 {
			s.NoFingerPolls--
			return protocol.StatusNoFinger, nil
		}
		return s.ImageStatus, nil

	case protocol.CodeGenChar:
		if len(params) != 1 {
			return protocol.StatusError, nil
		}
		return s.GenCharStatus, nil

	case protocol.CodeSearch:
		if len(params) != 5 {
			return protocol.StatusError, nil
		}
		if s.Match == nil {
			return protocol.StatusFingerNotFound, nil
		}
		start := binary.BigEndian.Uint16(params[1:3])
		end := binary.BigEndian.Uint16(params[3:5])
		if s.Match.TemplateID < start || s.Match.TemplateID > end {
			return protocol.StatusFingerNotFound, nil
		}
		payload := make([]byte, protocol.SearchResponseSize)
		binary.BigEndian.PutUint16(payload[0:2], s.Match.TemplateID)
		binary.BigEndian.PutUint16(payload[2:4], s.Match.Score)
		return protocol.StatusOK, payload

	default:
		return protocol.StatusError, nil
	}
}

// Requests returns the commands received so far.
func (s *Simulator) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
