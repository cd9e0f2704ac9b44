package anim

import (
	"sync"
	"time"
)

// Script is a list of notification lines shown at a fixed spacing.
type Script struct {
	Name    string
	Lines   []string
	Spacing time.Duration
	Kind    LineKind
}

// Playback is a running Script.
type Playback struct {
	sched  Scheduler
	script Script
	sink   LogSink

	mu       sync.Mutex
	stopped  bool
	pending  Timer
	done     chan struct{}
	doneOnce sync.Once
}

// PlayScript shows the first line immediately on the scheduler thread and
// each following line Spacing later.
func PlayScript(sched Scheduler, script Script, sink LogSink) *Playback {
	if script.Kind == "" {
		script.Kind = LineOutput
	}
	p := &Playback{
		sched:  sched,
		script: script,
		sink:   sink,
		done:   make(chan struct{}),
	}
	p.schedule(0, 0)
	return p
}

// Done is closed after the last line or on Stop.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Stop cancels the remaining lines.
func (p *Playback) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
	p.finish()
}

func (p *Playback) show(i int) {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return
	}
	if i >= len(p.script.Lines) {
		p.finish()
		return
	}

	if p.sink != nil {
		p.sink.AppendLogLine(p.script.Lines[i], p.script.Kind)
	}
	if i == len(p.script.Lines)-1 {
		p.finish()
		return
	}
	p.schedule(p.script.Spacing, i+1)
}

func (p *Playback) schedule(d time.Duration, i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.pending = p.sched.After(d, func() { p.show(i) })
}

func (p *Playback) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}
