package capture

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/moffa90/go-ad013/protocol"
)

// Line markers of the transcript format.
const (
	// RequestMarker starts a host to device frame
	RequestMarker = '>'

	// ResponseMarker starts a device to host frame
	ResponseMarker = '<'

	// CommentMarker starts a comment line
	CommentMarker = '#'

	// RawMarker follows ResponseMarker for bytes kept as received, even when
	// they do not form a valid frame
	RawMarker = '!'
)

// Parse parses a transcript file from the given path.
//
// Example:
//
//	tr, err := capture.Parse("testdata/search.cap")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d exchanges\n", len(tr.Exchanges))
func Parse(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses a transcript from any io.Reader.
//
// Format, one frame per line, hex digits with optional spaces:
//
//	# comment
//	> EF01FFFFFFFF0100071300000000001B
//	< EF01FFFFFFFF07000300000A
//
// Every frame must be well formed and carry a valid checksum, except raw
// responses marked "<!" which hold whatever bytes the sensor sent. A response
// must directly follow its request; a request without one records a silent
// sensor.
func ParseReader(r io.Reader) (*Transcript, error) {
	scanner := bufio.NewScanner(r)

	tr := &Transcript{}
	var codec *protocol.Codec
	var last *Exchange

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || line[0] == CommentMarker {
			continue
		}

		marker := line[0]
		if marker != RequestMarker && marker != ResponseMarker {
			return nil, fmt.Errorf("line %d: unknown marker %q", lineNum, marker)
		}

		body := line[1:]
		raw := marker == ResponseMarker && strings.HasPrefix(body, string(RawMarker))

		var frame []byte
		var err error
		if raw {
			frame, err = parseRaw(body[1:])
		} else {
			frame, err = parseFrame(body)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		if !raw {
			if codec == nil {
				copy(tr.DeviceID[:], frame[protocol.OffsetDeviceID:protocol.OffsetFlag])
				codec = protocol.NewCodec(tr.DeviceID)
			}
			if _, err := codec.Decode(frame); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		}

		switch marker {
		case RequestMarker:
			last = &Exchange{Request: frame, Line: lineNum}
			tr.Exchanges = append(tr.Exchanges, last)
		case ResponseMarker:
			if last == nil || last.Response != nil {
				return nil, fmt.Errorf("line %d: response without a request", lineNum)
			}
			last.Response = frame
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	if len(tr.Exchanges) == 0 {
		return nil, fmt.Errorf("no exchanges found")
	}

	return tr, nil
}

// parseFrame decodes the hex digits of one frame, ignoring blanks.
func parseFrame(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s) < 2*protocol.MinFrameSize {
		return nil, fmt.Errorf("frame too short: got %d characters, minimum is %d", len(s), 2*protocol.MinFrameSize)
	}

	frame, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return frame, nil
}

// parseRaw decodes the hex digits of a raw response. Any non-empty byte
// string is accepted.
func parseRaw(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, fmt.Errorf("empty raw response")
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return b, nil
}
