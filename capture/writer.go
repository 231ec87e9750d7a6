package capture

import (
	"bufio"
	"fmt"
	"io"

	"github.com/moffa90/go-ad013/protocol"
)

// WriteTo writes the transcript in the format read by ParseReader. Every
// exchange is preceded by a comment naming its command. A response that does
// not decode is written raw, after a comment giving the reason.
func (t *Transcript) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64

	write := func(format string, args ...interface{}) error {
		n, err := fmt.Fprintf(bw, format, args...)
		total += int64(n)
		return err
	}

	codec := protocol.NewCodec(t.DeviceID)

	if err := write("# device %X\n", t.DeviceID[:]); err != nil {
		return total, err
	}
	for _, ex := range t.Exchanges {
		if err := write("# %s\n%c %X\n", ex.Command().Name, RequestMarker, ex.Request); err != nil {
			return total, err
		}
		if len(ex.Response) == 0 {
			continue
		}
		if _, err := codec.Decode(ex.Response); err != nil {
			if err := write("# %v\n%c%c %X\n", err, ResponseMarker, RawMarker, ex.Response); err != nil {
				return total, err
			}
			continue
		}
		if err := write("%c %X\n", ResponseMarker, ex.Response); err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}
