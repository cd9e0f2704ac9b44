package anim

import (
	"math"
	"strconv"
	"sync"
	"time"
)

// DefaultCounterDuration is how long a stat takes to count up.
const DefaultCounterDuration = 2 * time.Second

// Counter counts a stat value up from zero, one sample per frame, eased
// with EaseOutQuart unless configured otherwise.
type Counter struct {
	sched    Scheduler
	sink     TextSink
	duration time.Duration
	ease     Easing

	mu       sync.Mutex
	started  bool
	stopped  bool
	pending  Timer
	done     chan struct{}
	doneOnce sync.Once
}

// NewCounter creates a counter rendering to sink.
func NewCounter(sched Scheduler, sink TextSink, duration time.Duration, ease Easing) *Counter {
	if ease == nil {
		ease = EaseOutQuart
	}
	return &Counter{
		sched:    sched,
		sink:     sink,
		duration: duration,
		ease:     ease,
		done:     make(chan struct{}),
	}
}

// Start counts to target and returns a channel closed when the final value
// is shown or the counter is stopped. Only the first call counts.
func (c *Counter) Start(target int) <-chan struct{} {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return c.done
	}
	c.started = true
	c.mu.Unlock()

	tw := newTween(0, float64(target), c.duration, c.ease)
	var frame func(now time.Time)
	frame = func(now time.Time) {
		if c.isStopped() {
			return
		}
		v, finished := tw.sample(now)
		n := int(math.Floor(v))
		if finished {
			n = target
		}
		if c.sink != nil {
			c.sink.SetText(strconv.Itoa(n))
		}
		if finished {
			c.finish()
			return
		}
		c.scheduleFrame(frame)
	}
	c.scheduleFrame(frame)
	return c.done
}

// Stop halts the count. It is idempotent.
func (c *Counter) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
	c.finish()
}

func (c *Counter) scheduleFrame(fn func(now time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.pending = c.sched.NextFrame(fn)
}

func (c *Counter) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *Counter) finish() {
	c.doneOnce.Do(func() { close(c.done) })
}
