package main

import (
	"time"

	"github.com/Zachkp/portfolio-fx/internal/anim"
)

var (
	AboutMe = `I love building software that's both useful and fun, and I'm always curious about how things work
	behind the scenes. Lately that means terminal interfaces, small servers and the timing code that makes
	a page feel alive. When I'm not coding you'll usually find me training Muay Thai or shooting pool.`

	// Projects are listed on the home page in this order.
	Projects = []Project{
		{
			Name:    "inbox-tui",
			Summary: "A terminal email client in Go with fuzzy finding, built on Bubble Tea and go-imap.",
		},
		{
			Name:    "tune-tui",
			Summary: "A terminal music player that drives yt-dlp and mpv from a Bubble Tea interface.",
		},
		{
			Name:    "game-recs",
			Summary: "A recommender that ranks games by TF-IDF similarity with filters on reviews and ratings.",
		},
		{
			Name:    "portfolio-fx",
			Summary: "This site: Gin, HTMX and server-sent animation streams for the preloader and typewriter.",
		},
	}

	// Stats count up on the home page.
	Stats = []Stat{
		{Label: "Projects shipped", Value: 12},
		{Label: "Commits this year", Value: 847},
		{Label: "Rounds sparred", Value: 300},
	}
)

type Project struct {
	Name    string
	Summary string
}

type Stat struct {
	Label string
	Value int
}

// scripts are the notification sequences the page can replay.
var scripts = map[string]anim.Script{
	"mission": {
		Name: "mission",
		Lines: []string{
			"Initiating mission protocol...",
			"Activating service mesh...",
			"Deploying backend workers...",
			"Mission ready. Systems operational.",
		},
		Spacing: time.Second,
		Kind:    anim.LineCommand,
	},
	"deploy": {
		Name: "deploy",
		Lines: []string{
			"Initializing deployment protocol...",
			"Authenticating build credentials...",
			"Rolling out containers...",
			"Deployment complete. Ready for traffic.",
		},
		Spacing: 800 * time.Millisecond,
		Kind:    anim.LineOutput,
	},
	"intel": {
		Name: "intel",
		Lines: []string{
			"Resume extraction initiated. Preparing download...",
			"Clearance verified. Resume ready.",
		},
		Spacing: 2 * time.Second,
		Kind:    anim.LineSuccess,
	},
}
