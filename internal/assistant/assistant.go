// Package assistant answers visitor questions from a keyword knowledge base.
package assistant

import (
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultTopic names replies that matched no topic.
const DefaultTopic = "default"

const (
	minTypingDelay = time.Second
	maxTypingDelay = 2 * time.Second
)

// ErrEmptyMessage rejects blank questions.
var ErrEmptyMessage = errors.New("assistant: empty message")

// Topic is a set of trigger patterns and their candidate responses.
type Topic struct {
	Name      string   `yaml:"name"`
	Patterns  []string `yaml:"patterns"`
	Responses []string `yaml:"responses"`
}

// KnowledgeBase is the assistant's entire vocabulary. Topics are matched
// in order, so earlier topics win.
type KnowledgeBase struct {
	Welcome string   `yaml:"welcome"`
	Topics  []Topic  `yaml:"topics"`
	Default []string `yaml:"default"`
}

// Validate checks that every topic can match and answer.
func (kb KnowledgeBase) Validate() error {
	if len(kb.Default) == 0 {
		return errors.New("knowledge base needs at least one default response")
	}
	for i, t := range kb.Topics {
		if t.Name == "" {
			return errors.Errorf("topic %d has no name", i)
		}
		if len(t.Patterns) == 0 || len(t.Responses) == 0 {
			return errors.Errorf("topic %q needs patterns and responses", t.Name)
		}
	}
	return nil
}

// LoadKnowledgeBase reads a YAML knowledge base.
func LoadKnowledgeBase(path string) (KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KnowledgeBase{}, errors.Wrap(err, "read knowledge base")
	}
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return KnowledgeBase{}, errors.Wrapf(err, "parse knowledge base %s", path)
	}
	if err := kb.Validate(); err != nil {
		return KnowledgeBase{}, errors.Wrapf(err, "invalid knowledge base %s", path)
	}
	return kb, nil
}

// Reply is an answer plus how long the widget should show its typing dots.
type Reply struct {
	Topic       string        `json:"topic"`
	Text        string        `json:"text"`
	TypingDelay time.Duration `json:"-"`
}

// Assistant picks responses. It is safe for concurrent use.
type Assistant struct {
	kb KnowledgeBase

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates an assistant. src drives response selection and typing
// delays; nil seeds from the runtime.
func New(kb KnowledgeBase, src rand.Source) *Assistant {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	topics := make([]Topic, len(kb.Topics))
	for i, t := range kb.Topics {
		t.Patterns = lowerAll(t.Patterns)
		topics[i] = t
	}
	kb.Topics = topics
	return &Assistant{kb: kb, rnd: rand.New(src)}
}

// Welcome returns the greeting shown when the widget opens.
func (a *Assistant) Welcome() string {
	return a.kb.Welcome
}

// Reply answers message with a response from the first topic that has a
// pattern contained in it, or a default response.
func (a *Assistant) Reply(message string) (Reply, error) {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return Reply{}, ErrEmptyMessage
	}

	topic, responses := DefaultTopic, a.kb.Default
	for _, t := range a.kb.Topics {
		if matches(lower, t.Patterns) {
			topic, responses = t.Name, t.Responses
			break
		}
	}

	a.mu.Lock()
	text := responses[a.rnd.IntN(len(responses))]
	delay := minTypingDelay + time.Duration(a.rnd.Int64N(int64(maxTypingDelay-minTypingDelay)))
	a.mu.Unlock()

	return Reply{Topic: topic, Text: text, TypingDelay: delay}, nil
}

func matches(message string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(message, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// DefaultKnowledgeBase is the built-in knowledge base for the site.
func DefaultKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		Welcome: "Assistant online. Ask me about Zach's skills, projects, or how to get in touch.",
		Topics: []Topic{
			{
				Name:     "greetings",
				Patterns: []string{"hello", "hi", "hey", "greetings"},
				Responses: []string{
					"Hey! I can walk you through Zach's projects and experience.",
					"Hello! Want to hear about the Go and TUI projects on this site?",
				},
			},
			{
				Name:     "skills",
				Patterns: []string{"skill", "what can you do", "expertise", "stack"},
				Responses: []string{
					"Zach works mostly in Go: Gin web services, HTMX front ends, and Charmbracelet terminal apps.",
					"Core tools: Go, SQLite, HTMX, Tailwind CSS, Alpine.js and a lot of terminal tinkering.",
				},
			},
			{
				Name:     "projects",
				Patterns: []string{"project", "portfolio", "what have you built", "built"},
				Responses: []string{
					"Highlights: a terminal email client, a TUI music streamer, a game recommender and this site.",
					"Check the projects section: each card links to the source on GitHub.",
				},
			},
			{
				Name:     "contact",
				Patterns: []string{"contact", "reach", "get in touch", "email"},
				Responses: []string{
					"Use the contact form at the bottom of the page; messages go straight to Zach's inbox.",
				},
			},
		},
		Default: []string{
			"I know about Zach's skills, projects and contact details. Try asking about one of those.",
			"Not sure about that one. Ask me about projects or experience instead.",
		},
	}
}
