package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/assistant"
	"github.com/Zachkp/portfolio-fx/internal/store"
	"github.com/Zachkp/portfolio-fx/internal/voice"
)

type assistantRequest struct {
	Message string `json:"message"`
}

type assistantResponse struct {
	Topic         string `json:"topic"`
	Reply         string `json:"reply"`
	TypingDelayMS int64  `json:"typing_delay_ms"`
}

func (s *server) handleAssistantWelcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"welcome": s.assistant.Welcome()})
}

func (s *server) handleAssistant(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := s.assistant.Reply(req.Message)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant unavailable"})
		return
	}

	chat := store.Chat{Message: req.Message, Topic: reply.Topic, Reply: reply.Text, Timestamp: s.now()}
	s.background(func(ctx context.Context) {
		if err := s.store.RecordChat(ctx, chat); err != nil {
			s.logger.Warn("record chat", zap.Error(err))
		}
	})

	c.JSON(http.StatusOK, assistantResponse{
		Topic:         reply.Topic,
		Reply:         reply.Text,
		TypingDelayMS: reply.TypingDelay.Milliseconds(),
	})
}

type voiceRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

type voiceResponse struct {
	Matched  bool          `json:"matched"`
	Command  voice.Command `json:"command"`
	Feedback string        `json:"feedback"`
	Stream   string        `json:"stream,omitempty"`
	Theme    string        `json:"theme,omitempty"`
	Lines    []string      `json:"lines,omitempty"`
}

// handleVoice resolves a transcript and performs the server side of its
// action.
func (s *server) handleVoice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transcript is required"})
		return
	}

	match, ok := s.voice.Match(req.Transcript)
	if !ok {
		c.JSON(http.StatusOK, voiceResponse{Feedback: "Command not recognized"})
		return
	}

	resp := voiceResponse{Matched: true, Command: match.Command, Feedback: match.Feedback}
	switch match.Action {
	case voice.ActionToggleTheme:
		resp.Theme = toggleTheme(c)
	case voice.ActionStartMission:
		resp.Stream = "/stream/script/mission"
	case voice.ActionSystemStatus:
		st, err := s.status(c.Request.Context())
		if err != nil {
			s.logger.Warn("collect system status", zap.Error(err))
			resp.Lines = []string{"System Status:", "Status unavailable"}
			break
		}
		resp.Lines = st.Lines()
	}

	cmd := store.Command{
		Transcript: req.Transcript,
		Phrase:     match.Phrase,
		Action:     string(match.Action),
		Timestamp:  s.now(),
	}
	s.background(func(ctx context.Context) {
		if err := s.store.RecordCommand(ctx, cmd); err != nil {
			s.logger.Warn("record voice command", zap.Error(err))
		}
	})

	c.JSON(http.StatusOK, resp)
}

func (s *server) handleStatus(c *gin.Context) {
	st, err := s.status(c.Request.Context())
	if err != nil {
		s.logger.Warn("collect system status", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": st,
		"level":  st.Level(),
		"lines":  st.Lines(),
	})
}
