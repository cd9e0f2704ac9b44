package main

import (
	"fmt"
	"net"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/config"
)

type contactMessage struct {
	Name    string `form:"fullName" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required"`
}

// handleContact sends the HTMX contact form and answers with a fragment.
func (s *server) handleContact(c *gin.Context) {
	var msg contactMessage
	if err := c.ShouldBind(&msg); err != nil || strings.ContainsAny(msg.Name+msg.Email, "\r\n") {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email and a message.",
		})
		return
	}

	if err := s.mail(s.cfg.SMTP, msg); err != nil {
		s.logger.Error("send contact email", zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	s.logger.Info("contact email sent", zap.String("name", msg.Name))
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}

// headerValue flattens v onto one line so it cannot start a new header.
func headerValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// composeContactEmail renders msg as an RFC 5322 message addressed to cfg.To.
func composeContactEmail(cfg config.SMTPConfig, msg contactMessage) []byte {
	headers := [][2]string{
		{"To", cfg.To},
		{"From", cfg.User},
		{"Reply-To", msg.Email},
		{"Subject", "Portfolio Contact: " + msg.Name},
		{"Content-Type", "text/plain; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], headerValue(h[1]))
	}
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Name: %s\r\nEmail: %s\r\n\r\n", headerValue(msg.Name), headerValue(msg.Email))
	for _, line := range strings.Split(strings.ReplaceAll(msg.Message, "\r\n", "\n"), "\n") {
		b.WriteString(line + "\r\n")
	}
	b.WriteString("\r\n-- \r\nSent from the portfolio contact form\r\n")
	return []byte(b.String())
}

func sendContactEmail(cfg config.SMTPConfig, msg contactMessage) error {
	if !cfg.Configured() {
		return errors.New("SMTP credentials not configured")
	}

	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	if err := smtp.SendMail(addr, auth, cfg.User, []string{cfg.To}, composeContactEmail(cfg, msg)); err != nil {
		return errors.Wrapf(err, "send mail via %s", addr)
	}
	return nil
}
