package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-ad013/protocol"
)

func readAll(t *testing.T, p *Port) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, 64)
	for p.Pending() > 0 {
		n, err := p.Read(buf)
		require.NoError(t, err)
		out = append(out, buf[:n]...)
	}
	return out
}

func TestSimulatorAnswers(t *testing.T) {
	codec := protocol.NewCodec(protocol.DefaultDeviceID())
	sim := NewSimulator()
	sim.NoFingerPolls = 1
	sim.Match = &protocol.SearchResult{TemplateID: 7, Score: 80}

	search, err := protocol.BuildSearchParams(protocol.BufferSlot1, 0, protocol.MaxTemplateID)
	require.NoError(t, err)
	narrow, err := protocol.BuildSearchParams(protocol.BufferSlot1, 0, 5)
	require.NoError(t, err)
	wrongPw, err := protocol.BuildVerifyPasswordParams(protocol.Password{1, 2, 3, 4})
	require.NoError(t, err)

	tests := []struct {
		name        string
		code        byte
		params      *protocol.Params
		wantStatus  protocol.Status
		wantPayload []byte
	}{
		{name: "default password", code: protocol.CodeVerifyPassword, params: protocol.DefaultParams(), wantStatus: protocol.StatusOK},
		{name: "wrong password", code: protocol.CodeVerifyPassword, params: wrongPw, wantStatus: protocol.StatusPasswordError},
		{name: "no finger yet", code: protocol.CodeGetImage, wantStatus: protocol.StatusNoFinger},
		{name: "finger present", code: protocol.CodeGetImage, wantStatus: protocol.StatusOK},
		{name: "search hit", code: protocol.CodeSearch, params: search, wantStatus: protocol.StatusOK, wantPayload: []byte{0x00, 0x07, 0x00, 0x50}},
		{name: "search outside range", code: protocol.CodeSearch, params: narrow, wantStatus: protocol.StatusFingerNotFound},
		{name: "unknown command", code: 0x3F, wantStatus: protocol.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Write(codec.Encode(tt.code, tt.params))
			require.NoError(t, err)

			resp, err := codec.Decode(readAll(t, sim.Port))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantPayload, resp.Payload)
		})
	}

	assert.Len(t, sim.Requests(), len(tests))
	assert.Equal(t, byte(protocol.CodeSearch), sim.Requests()[4].Code)
}

func TestSimulatorSilentAndGarbage(t *testing.T) {
	codec := protocol.NewCodec(protocol.DefaultDeviceID())
	sim := NewSimulator()

	_, err := sim.Write([]byte{0x00, 0x01, 0x02})
	require.NoError(t, err)
	assert.Zero(t, sim.Pending())

	sim.Silent = true
	_, err = sim.Write(codec.Encode(protocol.CodeGetImage, nil))
	require.NoError(t, err)
	assert.Zero(t, sim.Pending())
	assert.Len(t, sim.Requests(), 1)
}

func TestSimulatorCorruptReplies(t *testing.T) {
	codec := protocol.NewCodec(protocol.DefaultDeviceID())
	sim := NewSimulator()
	sim.CorruptReplies = 1

	_, err := sim.Write(codec.Encode(protocol.CodeGetImage, nil))
	require.NoError(t, err)
	_, err = codec.Decode(readAll(t, sim.Port))
	assert.ErrorIs(t, err, protocol.ErrChecksum)

	_, err = sim.Write(codec.Encode(protocol.CodeGetImage, nil))
	require.NoError(t, err)
	resp, err := codec.Decode(readAll(t, sim.Port))
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, resp.Status)
	assert.Zero(t, sim.CorruptReplies)
}
