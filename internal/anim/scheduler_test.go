package anim

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualScheduler_RunsInDueOrder(t *testing.T) {
	t.Parallel()

	s := NewManualScheduler(20 * time.Millisecond)
	start := s.Now()

	var order []string
	s.After(300*time.Millisecond, func() { order = append(order, "c") })
	s.After(100*time.Millisecond, func() { order = append(order, "a") })
	s.After(100*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, start.Add(250*time.Millisecond), s.Now())

	s.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_NestedWakesInsideWindow(t *testing.T) {
	t.Parallel()

	s := NewManualScheduler(20 * time.Millisecond)
	var fired []time.Duration
	start := s.Now()

	var chain func()
	chain = func() {
		fired = append(fired, s.Now().Sub(start))
		if len(fired) < 5 {
			s.After(100*time.Millisecond, chain)
		}
	}
	s.After(0, chain)

	s.Advance(250 * time.Millisecond)
	assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}, fired)
	assert.Equal(t, 1, s.Pending())
}

func TestManualScheduler_StopAndStep(t *testing.T) {
	t.Parallel()

	s := NewManualScheduler(20 * time.Millisecond)
	ran := false
	timer := s.After(time.Second, func() { ran = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.False(t, s.Step())
	assert.False(t, ran)

	var frameAt time.Time
	s.NextFrame(func(now time.Time) { frameAt = now })
	want := s.Now().Add(20 * time.Millisecond)
	require.True(t, s.Step())
	assert.Equal(t, want, frameAt)
	assert.Equal(t, want, s.Now())
}

func TestLoop_RunsCallbacksSerially(t *testing.T) {
	t.Parallel()

	l := NewLoop(5 * time.Millisecond)
	l.Start()
	defer l.Stop()

	var (
		mu       sync.Mutex
		inFlight int32
		overlap  atomic.Bool
		count    int
	)
	work := func() {
		if atomic.AddInt32(&inFlight, 1) > 1 {
			overlap.Store(true)
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		mu.Lock()
		count++
		mu.Unlock()
	}
	for i := 0; i < 10; i++ {
		l.After(time.Duration(i)*time.Millisecond, work)
		l.NextFrame(func(time.Time) { work() })
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 20
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, overlap.Load())
}

func TestLoop_StoppedTimerDoesNotRun(t *testing.T) {
	t.Parallel()

	l := NewLoop(5 * time.Millisecond)
	l.Start()
	defer l.Stop()

	var ran atomic.Bool
	timer := l.After(20*time.Millisecond, func() { ran.Store(true) })
	frame := l.NextFrame(func(time.Time) { ran.Store(true) })
	assert.True(t, timer.Stop())
	assert.True(t, frame.Stop())

	var later atomic.Bool
	l.After(40*time.Millisecond, func() { later.Store(true) })
	require.Eventually(t, later.Load, time.Second, 5*time.Millisecond)
	assert.False(t, ran.Load())
}
