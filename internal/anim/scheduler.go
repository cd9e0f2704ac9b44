// Package anim implements the portfolio's timed presentation effects: the
// staged preloader, the typewriter cycler, the stat counter and scripted
// notification lines.
//
// Every effect is driven by a Scheduler. Effects never block; each wait is a
// scheduled wake, and each component keeps at most one wake pending. Loop is
// the production scheduler (one goroutine executes every callback serially)
// and ManualScheduler is a virtual clock for tests and offline rendering.
package anim

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// Timer is a pending wake.
type Timer interface {
	// Stop prevents the wake from running. It reports whether the call
	// stopped it; false means it already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks later on a single logical thread.
type Scheduler interface {
	Now() time.Time
	// After runs fn once d has elapsed.
	After(d time.Duration, fn func()) Timer
	// NextFrame runs fn on the next display frame with the frame timestamp.
	NextFrame(fn func(now time.Time)) Timer
}

// Loop is a real-time Scheduler. Timer and frame callbacks all execute on
// the loop goroutine, one at a time.
type Loop struct {
	frameInterval time.Duration
	tasks         chan func()

	mu     sync.Mutex
	frames []*frameRequest

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewLoop creates a stopped loop that delivers frames every frameInterval.
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		frameInterval: frameInterval,
		tasks:         make(chan func(), 64),
		stopChan:      make(chan struct{}),
	}
}

// Start launches the loop goroutine. Calling it again is a no-op.
func (l *Loop) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	l.wg.Add(1)
	go l.run()
}

// Stop terminates the loop and waits for the running callback to return.
// Pending wakes are dropped. Must not be called from a loop callback.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.runFrames(time.Now())
		}
	}
}

func (l *Loop) runFrames(now time.Time) {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, req := range batch {
		if req.stopped.Swap(true) {
			continue
		}
		req.fn(now)
	}
}

func (l *Loop) post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.stopChan:
	}
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.post(func() {
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

// NextFrame implements Scheduler.
func (l *Loop) NextFrame(fn func(now time.Time)) Timer {
	req := &frameRequest{fn: fn}
	l.mu.Lock()
	l.frames = append(l.frames, req)
	l.mu.Unlock()
	return req
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}

type frameRequest struct {
	fn      func(now time.Time)
	stopped atomic.Bool
}

func (r *frameRequest) Stop() bool {
	return !r.stopped.Swap(true)
}

// ManualScheduler is a virtual clock. Nothing runs until Advance or Step is
// called; callbacks then run on the calling goroutine in due-time order.
type ManualScheduler struct {
	mu            sync.Mutex
	now           time.Time
	frameInterval time.Duration
	seq           uint64
	pending       []*manualTimer
}

// NewManualScheduler returns a virtual clock whose frames are
// frameInterval apart.
func NewManualScheduler(frameInterval time.Duration) *ManualScheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &ManualScheduler{
		now:           time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		frameInterval: frameInterval,
	}
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Now implements Scheduler.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// After implements Scheduler.
func (s *ManualScheduler) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(s.now.Add(d), fn)
}

// NextFrame implements Scheduler.
func (s *ManualScheduler) NextFrame(fn func(now time.Time)) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now.Add(s.frameInterval)
	return s.addLocked(at, func() { fn(at) })
}

func (s *ManualScheduler) addLocked(at time.Time, fn func()) *manualTimer {
	s.seq++
	t := &manualTimer{s: s, at: at, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// popDue removes and returns the earliest live timer due at or before limit.
func (s *ManualScheduler) popDue(limit time.Time, bounded bool) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.pending = live
	if len(s.pending) == 0 {
		return nil
	}
	sort.Slice(s.pending, func(i, j int) bool {
		if s.pending[i].at.Equal(s.pending[j].at) {
			return s.pending[i].seq < s.pending[j].seq
		}
		return s.pending[i].at.Before(s.pending[j].at)
	})
	next := s.pending[0]
	if bounded && next.at.After(limit) {
		return nil
	}
	s.pending = s.pending[1:]
	next.stopped = true
	if next.at.After(s.now) {
		s.now = next.at
	}
	return next
}

// Advance moves the clock forward by d, running every wake that falls due,
// including wakes scheduled by those callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	limit := s.Now().Add(d)
	for {
		t := s.popDue(limit, true)
		if t == nil {
			break
		}
		t.fn()
	}
	s.mu.Lock()
	if limit.After(s.now) {
		s.now = limit
	}
	s.mu.Unlock()
}

// Step runs the next pending wake, jumping the clock to its due time. It
// reports false when nothing is pending.
func (s *ManualScheduler) Step() bool {
	t := s.popDue(time.Time{}, false)
	if t == nil {
		return false
	}
	t.fn()
	return true
}

// Pending returns the number of live wakes.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
