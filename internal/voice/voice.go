// Package voice maps spoken transcripts to page actions.
package voice

import "strings"

// Action is what the page should do for a command.
type Action string

const (
	ActionScroll        Action = "scroll"
	ActionToggleTheme   Action = "toggle-theme"
	ActionOpenAssistant Action = "open-assistant"
	ActionStartMission  Action = "start-mission"
	ActionSystemStatus  Action = "system-status"
)

// Command binds a phrase to an action. Section is the scroll target for
// ActionScroll.
type Command struct {
	Phrase  string `json:"phrase"`
	Action  Action `json:"action"`
	Section string `json:"section,omitempty"`
}

// Match is a recognised command and the feedback to show.
type Match struct {
	Command
	Feedback string `json:"feedback"`
}

// DefaultCommands are the phrases the site understands, in priority order.
func DefaultCommands() []Command {
	return []Command{
		{Phrase: "open portfolio", Action: ActionScroll, Section: "hero"},
		{Phrase: "show skills", Action: ActionScroll, Section: "skills"},
		{Phrase: "view projects", Action: ActionScroll, Section: "projects"},
		{Phrase: "contact info", Action: ActionScroll, Section: "contact"},
		{Phrase: "toggle theme", Action: ActionToggleTheme},
		{Phrase: "open ai", Action: ActionOpenAssistant},
		{Phrase: "start mission", Action: ActionStartMission},
		{Phrase: "system status", Action: ActionSystemStatus},
	}
}

// Router finds the first command whose phrase appears in a transcript.
type Router struct {
	commands []Command
}

// NewRouter creates a router over commands, compared case-insensitively.
func NewRouter(commands []Command) *Router {
	r := &Router{commands: make([]Command, 0, len(commands))}
	for _, c := range commands {
		c.Phrase = strings.ToLower(strings.TrimSpace(c.Phrase))
		if c.Phrase == "" {
			continue
		}
		r.commands = append(r.commands, c)
	}
	return r
}

// Commands returns the registered commands.
func (r *Router) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

// Match returns the first registered command contained in transcript.
func (r *Router) Match(transcript string) (Match, bool) {
	lower := strings.ToLower(transcript)
	for _, c := range r.commands {
		if strings.Contains(lower, c.Phrase) {
			return Match{Command: c, Feedback: "Executing: " + c.Phrase}, true
		}
	}
	return Match{}, false
}
