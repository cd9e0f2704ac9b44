package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/anim"
	"github.com/Zachkp/portfolio-fx/internal/assistant"
	"github.com/Zachkp/portfolio-fx/internal/config"
	"github.com/Zachkp/portfolio-fx/internal/store"
	"github.com/Zachkp/portfolio-fx/internal/sysstat"
	"github.com/Zachkp/portfolio-fx/internal/voice"
)

//go:embed templates/*.html
var templateFS embed.FS

type server struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *store.Store
	loop      *anim.Loop
	assistant *assistant.Assistant
	voice     *voice.Router
	status    sysstat.Collector
	scripts   map[string]anim.Script
	mail      func(config.SMTPConfig, contactMessage) error
	now       func() time.Time

	adminToken  string
	hashingSalt string

	bg sync.WaitGroup
}

func newServer(cfg config.Config, logger *zap.Logger, st *store.Store) (*server, error) {
	kb := assistant.DefaultKnowledgeBase()
	if cfg.KnowledgeBase != "" {
		loaded, err := assistant.LoadKnowledgeBase(cfg.KnowledgeBase)
		if err != nil {
			return nil, err
		}
		kb = loaded
	}

	adminToken, err := generateToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}

	s := &server{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		loop:        anim.NewLoop(cfg.FrameInterval),
		assistant:   assistant.New(kb, nil),
		voice:       voice.NewRouter(voice.DefaultCommands()),
		status:      sysstat.Collect,
		scripts:     scripts,
		mail:        sendContactEmail,
		now:         time.Now,
		adminToken:  adminToken,
		hashingSalt: salt,
	}
	s.loop.Start()
	return s, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	return hex.EncodeToString(b), nil
}

// hashIP returns a salted, truncated digest so raw addresses are never stored.
func (s *server) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(sum[:])[:16]
}

// background runs fn outside the request and lets close wait for it.
func (s *server) background(fn func(ctx context.Context)) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fn(ctx)
	}()
}

func (s *server) routes() (*gin.Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	r := gin.New()
	r.Use(s.accessLog(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.Use(s.visitorTracking())

	r.GET("/", s.handleHome)
	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact", s.handleContact)
	r.POST("/theme/toggle", s.handleThemeToggle)

	stream := r.Group("/stream")
	stream.GET("/preloader", s.streamPreloader)
	stream.GET("/typewriter", s.streamTypewriter)
	stream.GET("/counter/:target", s.streamCounter)
	stream.GET("/script/:name", s.streamScript)

	api := r.Group("/api")
	api.GET("/assistant", s.handleAssistantWelcome)
	api.POST("/assistant", s.handleAssistant)
	api.POST("/voice", s.handleVoice)
	api.GET("/status", s.handleStatus)

	s.adminRoutes(r)
	return r, nil
}

// accessLog logs each request with the client identified by its hash.
func (s *server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", s.hashIP(c.ClientIP())),
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			s.logger.Error("request", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= http.StatusBadRequest:
			s.logger.Warn("request", fields...)
		default:
			s.logger.Debug("request", fields...)
		}
	}
}

// serve runs the HTTP server until ctx is done, then drains it.
func (s *server) serve(ctx context.Context, handler http.Handler) error {
	addr := net.JoinHostPort("", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// Streams end with the server instead of holding Shutdown open.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	s.logger.Info("serving", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// close waits for background work and stops the animation loop.
func (s *server) close() {
	s.bg.Wait()
	s.loop.Stop()
}
