package anim

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultTransition      = 2 * time.Second
	DefaultFinalTransition = time.Second
	DefaultCompletionHold  = time.Second
)

var (
	// ErrAlreadyStarted is returned when a Sequencer is run twice.
	ErrAlreadyStarted = errors.New("anim: sequencer already started")
	// ErrCancelled is returned by Run when Cancel stopped the sequence,
	// including a Cancel that came before Run.
	ErrCancelled = errors.New("anim: sequence cancelled")
)

// ProgressStep is one stage of a loading sequence.
type ProgressStep struct {
	Label       string
	TargetDelta float64
	Hold        time.Duration
}

// SequencerState is a snapshot of a running sequence.
type SequencerState struct {
	CumulativeProgress float64
	// CurrentStepIndex equals the number of steps during the final leg.
	CurrentStepIndex int
	IsComplete       bool
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithTransition sets the duration of each step's progress leg.
func WithTransition(d time.Duration) SequencerOption {
	return func(s *Sequencer) { s.transition = d }
}

// WithFinalTransition sets the duration of the closing leg to 100.
func WithFinalTransition(d time.Duration) SequencerOption {
	return func(s *Sequencer) { s.finalTransition = d }
}

// WithCompletionHold sets the pause between reaching 100 and completion.
func WithCompletionHold(d time.Duration) SequencerOption {
	return func(s *Sequencer) { s.completionHold = d }
}

// WithEasing sets the interpolation used by every leg.
func WithEasing(e Easing) SequencerOption {
	return func(s *Sequencer) {
		if e != nil {
			s.ease = e
		}
	}
}

// WithCompletionLine sets a success line logged once 100 is reached.
func WithCompletionLine(line string) SequencerOption {
	return func(s *Sequencer) { s.completionLine = line }
}

// Sequencer drives a staged 0..100 progress indicator. Each step logs its
// label, animates progress by its delta one frame at a time and holds; a
// final leg always closes the gap to exactly 100. A Sequencer is single use.
type Sequencer struct {
	sched           Scheduler
	sinks           Sinks
	transition      time.Duration
	finalTransition time.Duration
	completionHold  time.Duration
	ease            Easing
	completionLine  string

	steps       []ProgressStep
	onProgress  func(float64)
	onStepLabel func(string)

	mu        sync.Mutex
	state     SequencerState
	started   bool
	cancelled bool
	pending   Timer
	done      chan struct{}
	doneOnce  sync.Once
}

// NewSequencer creates a Sequencer that renders to sinks.
func NewSequencer(sched Scheduler, sinks Sinks, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		sched:           sched,
		sinks:           sinks,
		transition:      DefaultTransition,
		finalTransition: DefaultFinalTransition,
		completionHold:  DefaultCompletionHold,
		ease:            Linear,
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the sequence and returns a channel closed on completion
// or cancellation. onProgress and onStepLabel may be nil. Starting an
// already started Sequencer returns a closed channel and schedules nothing.
func (s *Sequencer) Start(steps []ProgressStep, onProgress func(float64), onStepLabel func(string)) <-chan struct{} {
	if err := s.start(steps, onProgress, onStepLabel); err != nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.done
}

// Run starts the sequence and blocks until it completes, ctx is done or
// Cancel is called. It needs a scheduler that advances on its own, such as
// Loop.
func (s *Sequencer) Run(ctx context.Context, steps []ProgressStep, onProgress func(float64), onStepLabel func(string)) error {
	if err := s.start(steps, onProgress, onStepLabel); err != nil {
		return err
	}
	select {
	case <-s.done:
		if s.isCancelled() {
			return ErrCancelled
		}
		return nil
	case <-ctx.Done():
		s.Cancel()
		return ctx.Err()
	}
}

func (s *Sequencer) start(steps []ProgressStep, onProgress func(float64), onStepLabel func(string)) error {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return ErrCancelled
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.steps = append([]ProgressStep(nil), steps...)
	s.onProgress = onProgress
	s.onStepLabel = onStepLabel
	s.mu.Unlock()

	s.schedule(0, func() { s.beginStep(0) })
	return nil
}

// Done returns the channel closed on completion or cancellation.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

// Cancel stops the sequence; no further values are emitted once the wake
// in flight returns. Calling it more than once is harmless.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
	s.finish()
}

// State returns a snapshot of the sequence.
func (s *Sequencer) State() SequencerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) beginStep(i int) {
	if s.isCancelled() {
		return
	}
	if i >= len(s.steps) {
		s.beginFinal()
		return
	}
	step := s.steps[i]

	s.mu.Lock()
	s.state.CurrentStepIndex = i
	from := s.state.CumulativeProgress
	s.mu.Unlock()

	if s.onStepLabel != nil {
		s.onStepLabel(step.Label)
	}
	s.sinks.appendLog(step.Label, LineOutput)

	to := clampPercent(from + step.TargetDelta)
	if to < from {
		to = from
	}
	s.animate(newTween(from, to, s.transition, s.ease), func() {
		s.schedule(step.Hold, func() { s.beginStep(i + 1) })
	})
}

func (s *Sequencer) beginFinal() {
	s.mu.Lock()
	s.state.CurrentStepIndex = len(s.steps)
	from := s.state.CumulativeProgress
	s.mu.Unlock()

	s.animate(newTween(from, 100, s.finalTransition, s.ease), func() {
		s.mu.Lock()
		s.state.IsComplete = true
		s.mu.Unlock()

		s.sinks.appendLog(s.completionLine, LineSuccess)
		s.schedule(s.completionHold, s.finish)
	})
}

// animate samples tw once per frame and calls next after the final sample.
func (s *Sequencer) animate(tw *tween, next func()) {
	var frame func(now time.Time)
	frame = func(now time.Time) {
		if s.isCancelled() {
			return
		}
		v, finished := tw.sample(now)
		s.emit(v)
		if finished {
			next()
			return
		}
		s.scheduleFrame(frame)
	}
	s.scheduleFrame(frame)
}

// emit records v, never letting progress fall or leave [0,100].
func (s *Sequencer) emit(v float64) {
	s.mu.Lock()
	v = clampPercent(v)
	if v < s.state.CumulativeProgress {
		v = s.state.CumulativeProgress
	}
	s.state.CumulativeProgress = v
	s.mu.Unlock()

	if s.onProgress != nil {
		s.onProgress(v)
	}
	s.sinks.setProgress(v)
}

func (s *Sequencer) schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.pending = s.sched.After(d, fn)
}

func (s *Sequencer) scheduleFrame(fn func(now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.pending = s.sched.NextFrame(fn)
}

func (s *Sequencer) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Sequencer) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}
