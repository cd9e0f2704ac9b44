package preview

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/anim"
)

// Sender delivers messages to a running program; *tea.Program is one.
type Sender interface {
	Send(msg tea.Msg)
}

// programSink forwards render values to the program.
type programSink struct {
	p Sender
}

func (s programSink) SetText(text string)                { s.p.Send(textMsg(text)) }
func (s programSink) SetProgressPercent(percent float64) { s.p.Send(progressMsg(percent)) }
func (s programSink) AppendLogLine(line string, kind anim.LineKind) {
	s.p.Send(logMsg{line: line, kind: kind})
}

// NewSinks returns render sinks that feed p.
func NewSinks(p Sender) anim.Sinks {
	ps := programSink{p: p}
	return anim.Sinks{Text: ps, Progress: ps, Log: ps}
}

// Options configures a preview run.
type Options struct {
	Title             string
	Steps             []anim.ProgressStep
	Phrases           []string
	SequencerOptions  []anim.SequencerOption
	TypewriterOptions []anim.TypewriterOption
	Logger            *zap.Logger
	ProgramOptions    []tea.ProgramOption
}

// Run plays the preloader followed by the typewriter until the user quits
// or ctx is done.
func Run(ctx context.Context, sched anim.Scheduler, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(NewModel(opts.Title), programOpts...)
	sinks := NewSinks(p)

	tw, err := anim.NewTypewriter(sched, opts.Phrases, sinks.Text, opts.TypewriterOptions...)
	if err != nil {
		return err
	}
	seq := anim.NewSequencer(sched, sinks, opts.SequencerOptions...)
	meter := anim.NewFrameMeter(sched, logger, func(fps int) { p.Send(fpsMsg(fps)) })

	meter.Start()
	done := seq.Start(opts.Steps, nil, nil)
	go func() {
		select {
		case <-done:
		case <-ctx.Done():
			return
		}
		p.Send(loadedMsg{})
		tw.Start()
		logger.Debug("preloader finished", zap.Int("steps", len(opts.Steps)))
	}()

	_, err = p.Run()

	seq.Cancel()
	tw.Stop()
	meter.Stop()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
