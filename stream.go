package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/anim"
	"github.com/Zachkp/portfolio-fx/internal/sink"
)

// maxCounterTarget bounds /stream/counter so a count stays readable.
const maxCounterTarget = 1_000_000_000

// streamPreloader plays the configured loading sequence.
func (s *server) streamPreloader(c *gin.Context) {
	q := sink.NewQueue()
	seq := anim.NewSequencer(s.loop, q.Sinks(), s.cfg.Preloader.Options()...)
	done := seq.Start(s.cfg.Preloader.ProgressSteps(), nil, nil)
	go closeWhen(q, done)
	s.streamEvents(c, q, seq.Cancel)
}

// streamTypewriter cycles the configured phrases until the client leaves.
func (s *server) streamTypewriter(c *gin.Context) {
	q := sink.NewQueue()
	tw, err := anim.NewTypewriter(s.loop, s.cfg.Typewriter.Phrases, q, s.cfg.Typewriter.Options()...)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	tw.Start()
	s.streamEvents(c, q, tw.Stop)
}

func (s *server) streamCounter(c *gin.Context) {
	target, err := strconv.Atoi(c.Param("target"))
	if err != nil || target < 0 || target > maxCounterTarget {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target must be an integer between 0 and 1000000000"})
		return
	}

	q := sink.NewQueue()
	counter := anim.NewCounter(s.loop, q, s.cfg.Counter.Duration, nil)
	done := counter.Start(target)
	go closeWhen(q, done)
	s.streamEvents(c, q, counter.Stop)
}

func (s *server) streamScript(c *gin.Context) {
	script, ok := s.scripts[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown script"})
		return
	}

	q := sink.NewQueue()
	playback := anim.PlayScript(s.loop, script, q)
	go closeWhen(q, playback.Done())
	s.streamEvents(c, q, playback.Stop)
}

func closeWhen(q *sink.Queue, done <-chan struct{}) {
	<-done
	q.Close()
}

// streamEvents writes queued render events as server-sent events until the
// queue closes or the client goes away, then calls stop.
func (s *server) streamEvents(c *gin.Context, q *sink.Queue, stop func()) {
	defer stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	sent := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("stream client gone", zap.String("path", c.FullPath()), zap.Int("events", sent))
			return
		case <-q.Ready():
		}

		events, closed := q.Drain()
		for _, ev := range events {
			c.SSEvent(string(ev.Kind), ev)
		}
		sent += len(events)
		c.Writer.Flush()
		if closed {
			return
		}
	}
}
