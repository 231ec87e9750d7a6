package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Decode validates an ACK frame and extracts its status code and payload.
//
// Response frame structure:
//
//	[EF 01][DEVID(4)][FLAG][LEN(2)][STATUS][DATA...][SUM(2)]
//
// The first EchoPrefixSize bytes must match the frames this codec encodes.
// Bytes following the declared frame are ignored. The returned payload is a
// copy owned by the caller.
func (c *Codec) Decode(raw []byte) (*Response, error) {
	if len(raw) < MinFrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrIncompleteFrame, len(raw), MinFrameSize)
	}

	if !bytes.Equal(raw[:EchoPrefixSize], c.header[:EchoPrefixSize]) {
		return nil, fmt.Errorf("%w: header % X does not echo % X",
			ErrFraming, raw[:EchoPrefixSize], c.header[:EchoPrefixSize])
	}

	length := int(binary.BigEndian.Uint16(raw[OffsetLength:]))
	if length < LengthOverhead {
		return nil, fmt.Errorf("%w: length field %d is below the minimum %d", ErrFraming, length, LengthOverhead)
	}

	size := OffsetCode + length
	if len(raw) < size {
		return nil, fmt.Errorf("%w: got %d bytes, frame declares %d", ErrIncompleteFrame, len(raw), size)
	}

	end := size - ChecksumSize
	received := binary.BigEndian.Uint16(raw[end:size])
	calculated := frameChecksum(raw, end)
	if received != calculated {
		return nil, &ChecksumError{Received: received, Calculated: calculated}
	}

	resp := &Response{
		Flag:   raw[OffsetFlag],
		Status: Status(raw[OffsetCode]),
	}
	if end > OffsetData {
		resp.Payload = make([]byte, end-OffsetData)
		copy(resp.Payload, raw[OffsetData:end])
	}

	return resp, nil
}

// ParseSearchResponse parses the payload of a successful Search command.
//
// Data format (4 bytes):
//
//	[PAGE_ID(2)][SCORE(2)]
func ParseSearchResponse(data []byte) (*SearchResult, error) {
	if len(data) < SearchResponseSize {
		return nil, fmt.Errorf("%w: search response has %d bytes, expected %d",
			ErrInvalidPayload, len(data), SearchResponseSize)
	}

	return &SearchResult{
		TemplateID: binary.BigEndian.Uint16(data[0:2]),
		Score:      binary.BigEndian.Uint16(data[2:4]),
	}, nil
}
