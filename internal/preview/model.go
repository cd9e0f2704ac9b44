// Package preview plays the site's preloader and typewriter in a terminal.
//
// The animators run on an anim.Loop and render through sinks that forward
// every value to the Bubble Tea program as a message; the model only
// stores and draws what it is sent.
package preview

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio-fx/internal/anim"
)

const (
	barWidth = 40
	maxLog   = 8
)

type progressMsg float64

type logMsg struct {
	line string
	kind anim.LineKind
}

type textMsg string

type fpsMsg int

// loadedMsg marks the end of the preloader.
type loadedMsg struct{}

type logLine struct {
	text string
	kind anim.LineKind
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00f0ff"))
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00f0ff"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a4a"))
	outputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0c0d0"))
	commandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#b967ff"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	typedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff003c"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c6c80"))
)

// Model is the Bubble Tea model for the preview.
type Model struct {
	title   string
	percent float64
	log     []logLine
	text    string
	fps     int
	loaded  bool
	width   int
}

// NewModel creates an empty preview titled title.
func NewModel(title string) Model {
	return Model{title: title, width: 80}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case progressMsg:
		m.percent = float64(msg)
	case logMsg:
		m.log = append(m.log, logLine{text: msg.line, kind: msg.kind})
		if len(m.log) > maxLog {
			m.log = m.log[len(m.log)-maxLog:]
		}
	case textMsg:
		m.text = string(msg)
	case fpsMsg:
		m.fps = int(msg)
	case loadedMsg:
		m.loaded = true
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for _, l := range m.log {
		switch l.kind {
		case anim.LineSuccess:
			b.WriteString(successStyle.Render(l.text))
		case anim.LineCommand:
			b.WriteString(commandStyle.Render("$ " + l.text))
		default:
			b.WriteString(outputStyle.Render(l.text))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderBar(m.percent))
	b.WriteString(fmt.Sprintf(" %3d%%\n\n", int(math.Round(m.percent))))

	if m.loaded {
		b.WriteString(typedStyle.Render(m.text + "▌"))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("%d fps · q to quit", m.fps)))
	b.WriteString("\n")
	return b.String()
}

func renderBar(percent float64) string {
	filled := int(math.Round(percent / 100 * barWidth))
	filled = max(0, min(barWidth, filled))
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
