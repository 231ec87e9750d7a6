package capture

import "github.com/moffa90/go-ad013/protocol"

// Transcript is a recorded sequence of exchanges with one sensor.
type Transcript struct {
	// DeviceID is the address found in the first frame
	DeviceID protocol.DeviceID

	// Exchanges are in recording order
	Exchanges []*Exchange
}

// Exchange is one command frame and the ACK the sensor sent back.
type Exchange struct {
	// Request is the raw command frame
	Request []byte

	// Response is the raw ACK frame, nil when the sensor stayed silent
	Response []byte

	// Line is the line number of the request in the source, 0 when built in code
	Line int
}

// Command returns the table entry of the request's instruction code.
func (e *Exchange) Command() protocol.Command {
	if len(e.Request) <= protocol.OffsetCode {
		return protocol.Command{Name: "truncated frame", ParamSize: protocol.VariableParams}
	}
	cmd, _ := protocol.LookupCommand(e.Request[protocol.OffsetCode])
	return cmd
}

// Append adds an exchange. Frames are copied.
func (t *Transcript) Append(request, response []byte) {
	ex := &Exchange{Request: append([]byte(nil), request...)}
	if response != nil {
		ex.Response = append([]byte(nil), response...)
	}
	t.Exchanges = append(t.Exchanges, ex)
}
