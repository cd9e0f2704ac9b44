package anim

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCounter_CountsUpToTarget(t *testing.T) {
	t.Parallel()

	sched := NewManualScheduler(20 * time.Millisecond)
	rec := &textRecorder{}
	c := NewCounter(sched, rec, DefaultCounterDuration, nil)
	done := c.Start(1234)

	sched.Advance(3 * time.Second)
	<-done

	require.NotEmpty(t, rec.texts)
	assert.Equal(t, "0", rec.texts[0])
	assert.Equal(t, "1234", rec.texts[len(rec.texts)-1])

	prev := -1
	for _, text := range rec.texts {
		n, err := strconv.Atoi(text)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, prev)
		assert.LessOrEqual(t, n, 1234)
		prev = n
	}
	assert.Equal(t, 0, sched.Pending())
}

func TestCounter_Stop(t *testing.T) {
	t.Parallel()

	sched := NewManualScheduler(20 * time.Millisecond)
	rec := &textRecorder{}
	c := NewCounter(sched, rec, time.Second, Linear)
	done := c.Start(100)

	sched.Advance(200 * time.Millisecond)
	c.Stop()
	<-done
	shown := len(rec.texts)

	sched.Advance(5 * time.Second)
	assert.Len(t, rec.texts, shown)
	assert.NotEqual(t, "100", rec.texts[len(rec.texts)-1])
}

func TestPlayScript_Spacing(t *testing.T) {
	t.Parallel()

	sched := NewManualScheduler(DefaultFrameInterval)
	start := sched.Now()
	var lines []string
	var offsets []time.Duration
	sink := LogFunc(func(line string, kind LineKind) {
		assert.Equal(t, LineSuccess, kind)
		lines = append(lines, line)
		offsets = append(offsets, sched.Now().Sub(start))
	})

	p := PlayScript(sched, Script{
		Name:    "deploy",
		Lines:   []string{"one", "two", "three"},
		Spacing: 800 * time.Millisecond,
		Kind:    LineSuccess,
	}, sink)

	sched.Advance(5 * time.Second)
	<-p.Done()

	assert.Equal(t, []string{"one", "two", "three"}, lines)
	assert.Equal(t, []time.Duration{0, 800 * time.Millisecond, 1600 * time.Millisecond}, offsets)
}

func TestPlayScript_StopAndEmpty(t *testing.T) {
	t.Parallel()

	sched := NewManualScheduler(DefaultFrameInterval)
	var lines []string
	sink := LogFunc(func(line string, _ LineKind) { lines = append(lines, line) })

	p := PlayScript(sched, Script{Lines: []string{"a", "b"}, Spacing: time.Second}, sink)
	sched.Advance(0)
	p.Stop()
	p.Stop()
	sched.Advance(time.Minute)
	<-p.Done()
	assert.Equal(t, []string{"a"}, lines)

	empty := PlayScript(sched, Script{}, sink)
	sched.Advance(0)
	<-empty.Done()
}

func TestFrameMeter_Readings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		interval time.Duration
		wantFPS  int
		wantWarn bool
	}{
		{name: "fifty frames per second", interval: 20 * time.Millisecond, wantFPS: 50},
		{name: "slow display warns", interval: 40 * time.Millisecond, wantFPS: 25, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			sched := NewManualScheduler(tt.interval)
			var reports []int
			m := NewFrameMeter(sched, zap.New(core), func(fps int) { reports = append(reports, fps) })

			m.Start()
			sched.Advance(time.Second)
			m.Stop()

			assert.Equal(t, tt.wantFPS, m.FPS())
			assert.Equal(t, []int{tt.wantFPS}, reports)
			if tt.wantWarn {
				require.Equal(t, 1, logs.Len())
				assert.Equal(t, "low frame rate", logs.All()[0].Message)
			} else {
				assert.Equal(t, 0, logs.Len())
			}

			sched.Advance(time.Second)
			assert.Len(t, reports, 1)
		})
	}
}

func TestEasing_Bounds(t *testing.T) {
	t.Parallel()

	for name, e := range map[string]Easing{"linear": Linear, "quart": EaseOutQuart, "cubic": EaseInOutCubic} {
		assert.InDelta(t, 0, e(0), 1e-9, name)
		assert.InDelta(t, 1, e(1), 1e-9, name)
	}
}
