// Package sink adapts animation render sinks to transports. Queue buffers
// render events for one consumer, such as a Server-Sent Events response.
package sink

import (
	"fmt"
	"math"
	"sync"

	"github.com/Zachkp/portfolio-fx/internal/anim"
)

// Kind names an event; it doubles as the SSE event name.
type Kind string

const (
	KindText     Kind = "text"
	KindProgress Kind = "progress"
	KindLog      Kind = "log"
	KindDone     Kind = "done"
)

// Event is one render update.
type Event struct {
	Kind    Kind          `json:"kind"`
	Text    string        `json:"text,omitempty"`
	Percent float64       `json:"percent"`
	Line    anim.LineKind `json:"line_kind,omitempty"`
}

// Queue implements anim.TextSink, anim.ProgressSink and anim.LogSink.
// Consecutive progress events are coalesced so a slow reader only ever
// sees the latest value; text and log events are kept in order.
type Queue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	notify chan struct{}
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// SetText implements anim.TextSink.
func (q *Queue) SetText(text string) {
	q.push(Event{Kind: KindText, Text: text})
}

// SetProgressPercent implements anim.ProgressSink.
func (q *Queue) SetProgressPercent(percent float64) {
	q.push(Event{
		Kind:    KindProgress,
		Percent: percent,
		Text:    fmt.Sprintf("%d%%", int(math.Round(percent))),
	})
}

// AppendLogLine implements anim.LogSink.
func (q *Queue) AppendLogLine(line string, kind anim.LineKind) {
	q.push(Event{Kind: KindLog, Text: line, Line: kind})
}

// Sinks exposes the queue as every render target.
func (q *Queue) Sinks() anim.Sinks {
	return anim.Sinks{Text: q, Progress: q, Log: q}
}

// Close appends a done event. Later pushes are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.events = append(q.events, Event{Kind: KindDone})
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Ready fires whenever events may be waiting.
func (q *Queue) Ready() <-chan struct{} {
	return q.notify
}

// Drain takes every buffered event and reports whether the queue is closed
// and now empty.
func (q *Queue) Drain() ([]Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events, q.closed
}

func (q *Queue) push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if n := len(q.events); ev.Kind == KindProgress && n > 0 && q.events[n-1].Kind == KindProgress {
		q.events[n-1] = ev
	} else {
		q.events = append(q.events, ev)
	}
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
