package anim

// LineKind styles a log line.
type LineKind string

const (
	LineOutput  LineKind = "output"
	LineCommand LineKind = "command"
	LineSuccess LineKind = "success"
)

// TextSink receives the visible text of an element.
type TextSink interface {
	SetText(text string)
}

// ProgressSink receives a progress value on the 0..100 scale.
type ProgressSink interface {
	SetProgressPercent(percent float64)
}

// LogSink receives terminal-style log lines.
type LogSink interface {
	AppendLogLine(line string, kind LineKind)
}

// Sinks groups the render targets of one view. A nil field is skipped.
type Sinks struct {
	Text     TextSink
	Progress ProgressSink
	Log      LogSink
}

func (s Sinks) setText(text string) {
	if s.Text != nil {
		s.Text.SetText(text)
	}
}

func (s Sinks) setProgress(percent float64) {
	if s.Progress != nil {
		s.Progress.SetProgressPercent(percent)
	}
}

func (s Sinks) appendLog(line string, kind LineKind) {
	if s.Log != nil && line != "" {
		s.Log.AppendLogLine(line, kind)
	}
}

// TextFunc adapts a function to TextSink.
type TextFunc func(text string)

func (f TextFunc) SetText(text string) { f(text) }

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(percent float64)

func (f ProgressFunc) SetProgressPercent(percent float64) { f(percent) }

// LogFunc adapts a function to LogSink.
type LogFunc func(line string, kind LineKind)

func (f LogFunc) AppendLogLine(line string, kind LineKind) { f(line, kind) }
