// Package protocol implements the AD-013 capacitive fingerprint sensor packet protocol.
//
// This package provides the parameter buffer, the frame codec and the command
// table. It performs no I/O.
//
// # Protocol Overview
//
// Commands and acknowledgements share one frame layout, all integers big-endian:
//
//	[EF 01][DEVID(4)][FLAG][LEN(2)][CODE][DATA...][SUM(2)]
//
// Where:
//   - DEVID = device address, 0xFFFFFFFF by default
//   - FLAG = 0x01 for commands, 0x07 for acknowledgements
//   - LEN = 3 + len(DATA), it counts CODE, DATA and SUM
//   - SUM = sum of FLAG..DATA modulo 65536
//
// # Building Commands
//
// Parameters are accumulated in a bounded Params buffer and framed by a Codec:
//
//	codec := protocol.NewCodec(protocol.DefaultDeviceID())
//	params, _ := protocol.BuildSearchParams(protocol.BufferSlot1, 0, protocol.MaxTemplateID)
//	frame := codec.Encode(protocol.CmdSearch.Code, params)
//
// # Decoding Responses
//
//	resp, err := codec.Decode(raw)
//	switch {
//	case errors.Is(err, protocol.ErrChecksum):
//	    // corrupted reply, payload must be discarded
//	case errors.Is(err, protocol.ErrFraming):
//	    // reply does not belong to this exchange
//	}
//	if resp.Status != protocol.StatusOK {
//	    return &protocol.DeviceError{Operation: "search", Status: resp.Status}
//	}
//	result, err := protocol.ParseSearchResponse(resp.Payload)
package protocol
