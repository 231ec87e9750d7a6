package protocol

import (
	"encoding/binary"
	"fmt"
)

// Codec builds request frames for one device address and validates the
// frames it sends back. A Codec is immutable and safe for concurrent use.
type Codec struct {
	header [HeaderSize]byte
}

// NewCodec returns a codec addressing the given device.
func NewCodec(id DeviceID) *Codec {
	c := &Codec{}
	c.header[OffsetPreamble] = Preamble0
	c.header[OffsetPreamble+1] = Preamble1
	copy(c.header[OffsetDeviceID:OffsetFlag], id[:])
	c.header[OffsetFlag] = FlagCommand
	binary.BigEndian.PutUint16(c.header[OffsetLength:], LengthOverhead)
	return c
}

// DeviceID returns the address the codec was built for.
func (c *Codec) DeviceID() DeviceID {
	var id DeviceID
	copy(id[:], c.header[OffsetDeviceID:OffsetFlag])
	return id
}

// Encode constructs a command frame. A nil params sends no payload.
//
// Frame structure:
//
//	[EF 01][DEVID(4)][01][LEN(2)][CODE][PARAMS...][SUM(2)]
//
// The result is always MinFrameSize + params.Len() bytes long.
func (c *Codec) Encode(code byte, params *Params) []byte {
	var payload []byte
	if params != nil {
		payload = params.buf
	}
	return c.encode(FlagCommand, code, payload)
}

// EncodeResponse constructs an ACK frame carrying status and payload, as the
// sensor would send it back to this codec.
func (c *Codec) EncodeResponse(status Status, payload []byte) []byte {
	return c.encode(FlagAck, byte(status), payload)
}

func (c *Codec) encode(flag, code byte, payload []byte) []byte {
	if len(payload) > MaxPayloadSize {
		panic(fmt.Sprintf("protocol: payload of %d bytes exceeds %d", len(payload), MaxPayloadSize))
	}
	frame := make([]byte, MinFrameSize+len(payload))
	copy(frame, c.header[:])
	frame[OffsetFlag] = flag
	frame[OffsetCode] = code
	binary.BigEndian.PutUint16(frame[OffsetLength:], uint16(LengthOverhead+len(payload)))
	copy(frame[OffsetData:], payload)

	end := OffsetData + len(payload)
	binary.BigEndian.PutUint16(frame[end:], frameChecksum(frame, end))
	return frame
}

// FrameSize returns the total size declared by the header at the start of buf.
// It reports false until the length field has been received or when the
// declared length is too small to be valid.
func FrameSize(buf []byte) (int, bool) {
	if len(buf) < OffsetCode {
		return 0, false
	}
	length := int(binary.BigEndian.Uint16(buf[OffsetLength:]))
	if length < LengthOverhead {
		return 0, false
	}
	return OffsetCode + length, true
}
