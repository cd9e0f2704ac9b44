package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-fx/internal/anim"
)

func TestQueue_CoalescesProgress(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	q.AppendLogLine("booting", anim.LineOutput)
	q.SetProgressPercent(10)
	q.SetProgressPercent(20.4)
	q.SetText("hi")
	q.SetProgressPercent(99.6)
	q.Close()
	q.SetText("dropped")

	select {
	case <-q.Ready():
	default:
		t.Fatal("queue should be ready")
	}

	events, closed := q.Drain()
	require.True(t, closed)
	assert.Equal(t, []Event{
		{Kind: KindLog, Text: "booting", Line: anim.LineOutput},
		{Kind: KindProgress, Percent: 20.4, Text: "20%"},
		{Kind: KindText, Text: "hi"},
		{Kind: KindProgress, Percent: 99.6, Text: "100%"},
		{Kind: KindDone},
	}, events)

	events, closed = q.Drain()
	assert.Empty(t, events)
	assert.True(t, closed)
}

func TestQueue_DrivenBySequencer(t *testing.T) {
	t.Parallel()

	sched := anim.NewManualScheduler(20 * time.Millisecond)
	q := NewQueue()
	seq := anim.NewSequencer(sched, q.Sinks(), anim.WithTransition(100*time.Millisecond))
	done := seq.Start([]anim.ProgressStep{{Label: "load", TargetDelta: 40}}, nil, nil)

	for {
		select {
		case <-done:
			q.Close()
			events, closed := q.Drain()
			require.True(t, closed)
			require.GreaterOrEqual(t, len(events), 3)
			assert.Equal(t, Event{Kind: KindLog, Text: "load", Line: anim.LineOutput}, events[0])
			last := events[len(events)-2]
			assert.Equal(t, KindProgress, last.Kind)
			assert.Equal(t, 100.0, last.Percent)
			assert.Equal(t, "100%", last.Text)
			return
		default:
		}
		require.True(t, sched.Step())
	}
}
