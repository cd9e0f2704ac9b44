package anim

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultLowFPS is the rate below which FrameMeter warns.
const DefaultLowFPS = 50

// FrameMeter measures how many frames per second a Scheduler delivers.
type FrameMeter struct {
	sched     Scheduler
	log       *zap.Logger
	threshold int
	report    func(fps int)

	mu          sync.Mutex
	frames      int
	windowStart time.Time
	fps         int
	running     bool
	pending     Timer
}

// NewFrameMeter creates a meter. report, if set, receives each new reading
// on the scheduler thread.
func NewFrameMeter(sched Scheduler, logger *zap.Logger, report func(fps int)) *FrameMeter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameMeter{
		sched:     sched,
		log:       logger,
		threshold: DefaultLowFPS,
		report:    report,
	}
}

// Start begins counting frames.
func (m *FrameMeter) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.frames = 0
	m.windowStart = m.sched.Now()
	m.pending = m.sched.NextFrame(m.frame)
}

// Stop ends counting.
func (m *FrameMeter) Stop() {
	m.mu.Lock()
	m.running = false
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
}

// FPS returns the last full-window reading, 0 before the first window ends.
func (m *FrameMeter) FPS() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

func (m *FrameMeter) frame(now time.Time) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.frames++
	reading := -1
	if elapsed := now.Sub(m.windowStart); elapsed >= time.Second {
		m.fps = int(math.Round(float64(m.frames) * float64(time.Second) / float64(elapsed)))
		m.frames = 0
		m.windowStart = now
		reading = m.fps
	}
	m.pending = m.sched.NextFrame(m.frame)
	m.mu.Unlock()

	if reading < 0 {
		return
	}
	if reading < m.threshold {
		m.log.Warn("low frame rate", zap.Int("fps", reading))
	}
	if m.report != nil {
		m.report(reading)
	}
}
