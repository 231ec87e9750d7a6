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

// fakeClock records requested sleeps without waiting.
type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return ctx.Err()
}

func searchRange(t *testing.T, req stub.Request) (uint16, uint16) {
	t.Helper()
	require.Len(t, req.Params, 5)
	start := uint16(req.Params[1])<<8 | uint16(req.Params[2])
	end := uint16(req.Params[3])<<8 | uint16(req.Params[4])
	return start, end
}

func TestSearchFinger(t *testing.T) {
	ctx := context.Background()

	t.Run("match after polling", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.NoFingerPolls = 3
		sim.Match = &protocol.SearchResult{TemplateID: 42, Score: 88}
		clock := &fakeClock{}
		s := New(sim, WithSleep(clock.Sleep))

		m, err := s.SearchFinger(ctx)
		require.NoError(t, err)
		assert.Equal(t, &Match{Matched: true, TemplateID: 42, Score: 88, Attempts: 4}, m)
		assert.Equal(t, []time.Duration{120 * time.Millisecond, 120 * time.Millisecond, 120 * time.Millisecond}, clock.sleeps)

		reqs := sim.Requests()
		require.Len(t, reqs, 6)
		assert.Equal(t, byte(protocol.CodeGenChar), reqs[4].Code)
		assert.Equal(t, byte(protocol.CodeSearch), reqs[5].Code)
		start, end := searchRange(t, reqs[5])
		assert.Equal(t, uint16(0), start)
		assert.Equal(t, uint16(protocol.MaxTemplateID), end)
	})

	t.Run("unknown finger", func(t *testing.T) {
		sim := stub.NewSimulator()
		s := New(sim, WithSleep((&fakeClock{}).Sleep))

		m, err := s.SearchFinger(ctx)
		require.NoError(t, err)
		assert.False(t, m.Matched)
		assert.Equal(t, 1, m.Attempts)
	})

	t.Run("security officer range", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.Match = &protocol.SearchResult{TemplateID: 30, Score: 90}
		s := New(sim, WithSleep((&fakeClock{}).Sleep))

		m, err := s.SearchFinger(ctx, WithSecurityOfficerOnly(true))
		require.NoError(t, err)
		assert.False(t, m.Matched)

		reqs := sim.Requests()
		_, end := searchRange(t, reqs[len(reqs)-1])
		assert.Equal(t, uint16(protocol.MaxSecurityOfficerID), end)
	})

	t.Run("score below minimum", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.Match = &protocol.SearchResult{TemplateID: 5, Score: 40}
		s := New(sim, WithSleep((&fakeClock{}).Sleep))

		m, err := s.SearchFinger(ctx, WithMinScore(50))
		require.NoError(t, err)
		assert.False(t, m.Matched)
		assert.Equal(t, uint16(5), m.TemplateID)
		assert.Equal(t, uint16(40), m.Score)
	})

	t.Run("no finger before timeout", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.NoFingerPolls = 1000
		clock := &fakeClock{}
		s := New(sim, WithSleep(clock.Sleep))

		_, err := s.SearchFinger(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTimeout))

		var timeout *TimeoutError
		require.True(t, errors.As(err, &timeout))
		assert.Equal(t, 15, timeout.Attempts)
		assert.Len(t, clock.sleeps, 14)
		assert.Len(t, sim.Requests(), 15)
	})

	t.Run("custom timing", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.NoFingerPolls = 1000
		clock := &fakeClock{}
		s := New(sim, WithSleep(clock.Sleep))

		_, err := s.SearchFinger(ctx,
			WithSearchTimeout(time.Second),
			WithPollDelay(100*time.Millisecond),
			WithProcessingDelay(0),
		)
		var timeout *TimeoutError
		require.True(t, errors.As(err, &timeout))
		assert.Equal(t, 11, timeout.Attempts)
		assert.Len(t, clock.sleeps, 10)
	})

	t.Run("image failure aborts", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.ImageStatus = protocol.StatusImageFail
		s := New(sim, WithSleep((&fakeClock{}).Sleep))

		_, err := s.SearchFinger(ctx)
		status, ok := protocol.StatusOf(err)
		require.True(t, ok, "got %v", err)
		assert.Equal(t, protocol.StatusImageFail, status)
		assert.Len(t, sim.Requests(), 1)
	})

	t.Run("template generation failure", func(t *testing.T) {
		for _, st := range []protocol.Status{
			protocol.StatusError,
			protocol.StatusFeatureFailAmorphous,
			protocol.StatusFeatureFailMinutiae,
			protocol.StatusImageIncomplete,
		} {
			sim := stub.NewSimulator()
			sim.GenCharStatus = st
			s := New(sim, WithSleep((&fakeClock{}).Sleep))

			_, err := s.SearchFinger(ctx)
			var de *protocol.DeviceError
			require.True(t, errors.As(err, &de), "status %s: got %v", st, err)
			assert.Equal(t, st, de.Status)
			assert.Equal(t, protocol.CmdGenChar.Name, de.Operation)
		}
	})

	t.Run("undocumented template status", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.GenCharStatus = protocol.StatusFeatureFailLightDry
		s := New(sim, WithSleep((&fakeClock{}).Sleep))

		_, err := s.SearchFinger(ctx)
		var amb *AmbiguousStatusError
		require.True(t, errors.As(err, &amb), "got %v", err)
		assert.Equal(t, protocol.StatusFeatureFailLightDry, amb.Status)
		assert.Len(t, sim.Requests(), 2)
	})

	t.Run("silent sensor uses up the budget", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.Silent = true
		clock := &fakeClock{}
		s := New(sim, WithSleep(clock.Sleep))

		_, err := s.SearchFinger(ctx)
		var te *TimeoutError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "wait for finger", te.Operation)
		assert.Equal(t, 15, te.Attempts)
		assert.Len(t, clock.sleeps, 14)
		assert.Len(t, sim.Requests(), 15)
	})

	t.Run("garbled reply then finger", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.CorruptReplies = 1
		sim.NoFingerPolls = 2
		sim.Match = &protocol.SearchResult{TemplateID: 9, Score: 70}
		clock := &fakeClock{}
		s := New(sim, WithSleep(clock.Sleep))

		m, err := s.SearchFinger(ctx)
		require.NoError(t, err)
		assert.Equal(t, &Match{Matched: true, TemplateID: 9, Score: 70, Attempts: 3}, m)
		assert.Len(t, clock.sleeps, 2)
		assert.Len(t, sim.Requests(), 5)
	})

	t.Run("garbled replies are charged to the budget", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.CorruptReplies = 1000
		s := New(sim, WithSleep((&fakeClock{}).Sleep))

		_, err := s.SearchFinger(ctx,
			WithSearchTimeout(time.Second),
			WithPollDelay(500*time.Millisecond),
			WithProcessingDelay(0),
		)
		var te *TimeoutError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, 3, te.Attempts)
		assert.False(t, errors.Is(err, protocol.ErrChecksum))
	})

	t.Run("transport failure aborts", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.SetReadError(errors.New("device unplugged"))
		clock := &fakeClock{}
		s := New(sim, WithSleep(clock.Sleep))

		_, err := s.SearchFinger(ctx)
		assert.True(t, errors.Is(err, ErrTransport))
		assert.Contains(t, err.Error(), "get image")
		assert.Empty(t, clock.sleeps)
		assert.Len(t, sim.Requests(), 1)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		sim := stub.NewSimulator()
		sim.NoFingerPolls = 1000
		cctx, cancel := context.WithCancel(ctx)
		s := New(sim, WithSleep(func(context.Context, time.Duration) error {
			cancel()
			return context.Canceled
		}))

		_, err := s.SearchFinger(cctx)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Len(t, sim.Requests(), 1)
	})
}

func TestSearchFingerStages(t *testing.T) {
	sim := stub.NewSimulator()
	sim.NoFingerPolls = 1
	sim.Match = &protocol.SearchResult{TemplateID: 3, Score: 60}
	s := New(sim, WithSleep((&fakeClock{}).Sleep))

	var progress []Progress
	_, err := s.SearchFinger(context.Background(), WithStageCallback(func(p Progress) {
		progress = append(progress, p)
	}))
	require.NoError(t, err)

	stages := make([]Stage, len(progress))
	for i, p := range progress {
		stages[i] = p.Stage
	}
	assert.Equal(t, []Stage{
		StageWaitingForFinger,
		StageWaitingForFinger,
		StageCaptured,
		StageTemplateGenerated,
		StageSearched,
	}, stages)

	assert.Equal(t, 5*time.Second, progress[0].Remaining)
	assert.Equal(t, 2, progress[1].Attempt)
	assert.Equal(t, 5*time.Second-360*time.Millisecond, progress[1].Remaining)
}

func TestContextSleep(t *testing.T) {
	require.NoError(t, ContextSleep(context.Background(), 0))
	require.NoError(t, ContextSleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ContextSleep(ctx, time.Hour), context.Canceled)
}
