package anim

import (
	"errors"
	"sync"
	"time"
)

const (
	DefaultStartDelay  = time.Second
	DefaultTypeDelay   = 100 * time.Millisecond
	DefaultDeleteDelay = 50 * time.Millisecond
	DefaultTypedHold   = 2 * time.Second
	DefaultDeletedHold = 500 * time.Millisecond
)

// ErrNoPhrases rejects a typewriter with nothing to type.
var ErrNoPhrases = errors.New("anim: typewriter needs at least one phrase")

// Mode is the phase of the typewriter cycle.
type Mode int

const (
	Typing Mode = iota
	PausedAfterTyping
	Deleting
	PausedAfterDeleting
)

func (m Mode) String() string {
	switch m {
	case Typing:
		return "typing"
	case PausedAfterTyping:
		return "paused-after-typing"
	case Deleting:
		return "deleting"
	case PausedAfterDeleting:
		return "paused-after-deleting"
	default:
		return "unknown"
	}
}

// TypewriterState is a snapshot of the cycle. CharIndex counts runes.
type TypewriterState struct {
	PhraseIndex int
	CharIndex   int
	Mode        Mode
}

// TypewriterOption configures a Typewriter.
type TypewriterOption func(*Typewriter)

// WithStartDelay sets the wait between Start and the first character.
func WithStartDelay(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.startDelay = d }
}

// WithTypeDelay sets the interval between typed characters.
func WithTypeDelay(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.typeDelay = d }
}

// WithDeleteDelay sets the interval between deleted characters.
func WithDeleteDelay(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.deleteDelay = d }
}

// WithTypedHold sets how long a fully typed phrase stays visible.
func WithTypedHold(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.typedHold = d }
}

// WithDeletedHold sets the gap before the next phrase starts typing.
func WithDeletedHold(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.deletedHold = d }
}

// Typewriter types and deletes phrases in rotation until stopped.
type Typewriter struct {
	sched   Scheduler
	sink    TextSink
	phrases [][]rune

	startDelay  time.Duration
	typeDelay   time.Duration
	deleteDelay time.Duration
	typedHold   time.Duration
	deletedHold time.Duration

	mu      sync.Mutex
	state   TypewriterState
	started bool
	stopped bool
	pending Timer
}

// NewTypewriter creates a typewriter over phrases. sink may be nil, in
// which case the cycle still runs without output.
func NewTypewriter(sched Scheduler, phrases []string, sink TextSink, opts ...TypewriterOption) (*Typewriter, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	tw := &Typewriter{
		sched:       sched,
		sink:        sink,
		phrases:     make([][]rune, len(phrases)),
		startDelay:  DefaultStartDelay,
		typeDelay:   DefaultTypeDelay,
		deleteDelay: DefaultDeleteDelay,
		typedHold:   DefaultTypedHold,
		deletedHold: DefaultDeletedHold,
	}
	for i, p := range phrases {
		tw.phrases[i] = []rune(p)
	}
	for _, opt := range opts {
		opt(tw)
	}
	return tw, nil
}

// Start schedules the first tick after the start delay. Only the first call
// has any effect, and none after Stop.
func (tw *Typewriter) Start() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.started || tw.stopped {
		return
	}
	tw.started = true
	tw.pending = tw.sched.After(tw.startDelay, tw.tick)
}

// Stop cancels the pending tick. Ticks already running finish, but never
// schedule another. Stop is idempotent.
func (tw *Typewriter) Stop() {
	tw.mu.Lock()
	if tw.stopped {
		tw.mu.Unlock()
		return
	}
	tw.stopped = true
	pending := tw.pending
	tw.pending = nil
	tw.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
}

// State returns a snapshot of the cycle.
func (tw *Typewriter) State() TypewriterState {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.state
}

func (tw *Typewriter) tick() {
	tw.mu.Lock()
	if tw.stopped {
		tw.mu.Unlock()
		return
	}
	text, delay := tw.advanceLocked()
	tw.mu.Unlock()

	if tw.sink != nil {
		tw.sink.SetText(text)
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.stopped {
		return
	}
	tw.pending = tw.sched.After(delay, tw.tick)
}

// advanceLocked performs one tick and returns the text to show and the
// delay until the next tick. A wake in a paused mode leaves the pause and
// performs the first step of the following mode.
func (tw *Typewriter) advanceLocked() (string, time.Duration) {
	st := &tw.state
	switch st.Mode {
	case PausedAfterTyping:
		st.Mode = Deleting
	case PausedAfterDeleting:
		st.Mode = Typing
	}

	phrase := tw.phrases[st.PhraseIndex]
	var delay time.Duration

	switch st.Mode {
	case Typing:
		if st.CharIndex < len(phrase) {
			st.CharIndex++
		}
		delay = tw.typeDelay
		if st.CharIndex >= len(phrase) {
			st.CharIndex = len(phrase)
			st.Mode = PausedAfterTyping
			delay = tw.typedHold
		}
	case Deleting:
		if st.CharIndex > 0 {
			st.CharIndex--
		}
		delay = tw.deleteDelay
		if st.CharIndex == 0 {
			st.Mode = PausedAfterDeleting
			st.PhraseIndex = (st.PhraseIndex + 1) % len(tw.phrases)
			delay = tw.deletedHold
		}
	}

	return string(phrase[:st.CharIndex]), delay
}
