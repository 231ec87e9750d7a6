package sensor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-ad013/protocol"
	"github.com/moffa90/go-ad013/transport/stub"
)

// bench opens a simulator per speed; only the speed the module runs at
// answers.
type bench struct {
	speed    int
	password protocol.Password
	openErr  map[int]error
	opened   []int
	ports    []*stub.Simulator
}

func (b *bench) open(baud int) (Transport, error) {
	b.opened = append(b.opened, baud)
	if err := b.openErr[baud]; err != nil {
		return nil, err
	}
	sim := stub.NewSimulator()
	sim.Password = b.password
	sim.Silent = baud != b.speed
	b.ports = append(b.ports, sim)
	return sim, nil
}

func TestScanSpeeds(t *testing.T) {
	speeds := ScanSpeeds()
	assert.Equal(t, []int{115200, 57600, 38400, 19200, 9600}, speeds)

	speeds[0] = 1
	assert.Equal(t, 115200, ScanSpeeds()[0])
}

func TestFindSensor(t *testing.T) {
	ctx := context.Background()

	t.Run("tries speeds in order", func(t *testing.T) {
		b := &bench{speed: 38400}
		clock := &fakeClock{}

		s, baud, err := FindSensor(ctx, b.open, 0, WithSleep(clock.Sleep), WithRetries(2))
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 38400, baud)
		assert.Equal(t, []int{115200, 57600, 38400}, b.opened)
		assert.Equal(t, []time.Duration{settleDelay, settleDelay, settleDelay}, clock.sleeps)

		assert.True(t, b.ports[0].Closed())
		assert.True(t, b.ports[1].Closed())
		assert.False(t, b.ports[2].Closed())
		require.NoError(t, s.Close())
		assert.True(t, b.ports[2].Closed())
	})

	t.Run("explicit speed", func(t *testing.T) {
		b := &bench{speed: 9600}

		_, baud, err := FindSensor(ctx, b.open, 9600, WithSleep((&fakeClock{}).Sleep))
		require.NoError(t, err)
		assert.Equal(t, 9600, baud)
		assert.Equal(t, []int{9600}, b.opened)
	})

	t.Run("nothing answers", func(t *testing.T) {
		b := &bench{speed: 4800}

		s, _, err := FindSensor(ctx, b.open, 0, WithSleep((&fakeClock{}).Sleep), WithRetries(1))
		assert.Nil(t, s)
		assert.True(t, errors.Is(err, ErrSensorNotFound))
		assert.True(t, errors.Is(err, ErrTimeout))
		assert.Len(t, b.opened, 5)
		for _, p := range b.ports {
			assert.True(t, p.Closed())
		}
	})

	t.Run("open failures are skipped", func(t *testing.T) {
		b := &bench{speed: 57600, openErr: map[int]error{115200: errors.New("unsupported baud")}}

		_, baud, err := FindSensor(ctx, b.open, 0, WithSleep((&fakeClock{}).Sleep))
		require.NoError(t, err)
		assert.Equal(t, 57600, baud)
	})

	t.Run("port never opens", func(t *testing.T) {
		b := &bench{speed: 9600, openErr: map[int]error{9600: errors.New("no such device")}}

		_, _, err := FindSensor(ctx, b.open, 9600, WithSleep((&fakeClock{}).Sleep))
		assert.True(t, errors.Is(err, ErrSensorNotFound))
		assert.True(t, errors.Is(err, ErrTransport))
	})

	t.Run("wrong password stops the scan", func(t *testing.T) {
		b := &bench{speed: 115200, password: protocol.Password{0xAA, 0xBB, 0xCC, 0xDD}}

		s, baud, err := FindSensor(ctx, b.open, 0, WithSleep((&fakeClock{}).Sleep))
		assert.Nil(t, s)
		assert.Equal(t, 115200, baud)
		status, ok := protocol.StatusOf(err)
		require.True(t, ok, "got %v", err)
		assert.Equal(t, protocol.StatusPasswordError, status)
		assert.Len(t, b.opened, 1)
		assert.True(t, b.ports[0].Closed())
	})

	t.Run("configured password", func(t *testing.T) {
		pw := protocol.Password{0xAA, 0xBB, 0xCC, 0xDD}
		b := &bench{speed: 19200, password: pw}

		_, baud, err := FindSensor(ctx, b.open, 0, WithPassword(pw), WithSleep((&fakeClock{}).Sleep), WithRetries(1))
		require.NoError(t, err)
		assert.Equal(t, 19200, baud)
	})

	t.Run("cancelled", func(t *testing.T) {
		b := &bench{speed: 9600}
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := FindSensor(cctx, b.open, 0)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Empty(t, b.opened)
	})
}
