package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	themeCookie = "cyber-theme"
	themeCyber  = "cyber"
	themeLight  = "light"
)

// theme reads the visitor's theme, defaulting to cyber.
func theme(c *gin.Context) string {
	if v, err := c.Cookie(themeCookie); err == nil && v == themeLight {
		return themeLight
	}
	return themeCyber
}

func (s *server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"aboutMeContent": AboutMe,
		"projects":       Projects,
		"stats":          Stats,
		"theme":          theme(c),
	})
}

func (s *server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
		"theme": theme(c),
	})
}

// handleThemeToggle flips the theme cookie and returns the new theme.
func (s *server) handleThemeToggle(c *gin.Context) {
	next := toggleTheme(c)
	c.JSON(http.StatusOK, gin.H{"theme": next})
}

func toggleTheme(c *gin.Context) string {
	next := themeLight
	if theme(c) == themeLight {
		next = themeCyber
	}
	c.SetCookie(themeCookie, next, 365*24*3600, "/", "", false, false)
	return next
}
