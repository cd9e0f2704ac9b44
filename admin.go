// admin.go - privacy-conscious visitor tracking and the admin dashboard
package main

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/store"
)

const adminCookie = "admin_token"

// untrackedPrefixes are never recorded as visits.
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/stream/",
	"/api/",
}

// adminAuth requires the session cookie set at login.
func (s *server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views with hashed addresses, honouring
// Do Not Track.
func (s *server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := store.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.now(),
		}
		s.background(func(ctx context.Context) {
			if err := s.store.RecordVisit(ctx, visit); err != nil {
				s.logger.Warn("record visitor", zap.Error(err))
			}
		})
		c.Next()
	}
}

// cleanupOldVisitors removes visits past the retention window.
func (s *server) cleanupOldVisitors(ctx context.Context) {
	removed, err := s.store.CleanupVisitors(ctx, s.now().Add(-store.Retention))
	if err != nil {
		s.logger.Error("privacy cleanup", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("privacy cleanup removed old visitor records", zap.Int64("rows", removed))
	}
}

func (s *server) adminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
			"theme": theme(c),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		creds := s.cfg.Admin

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(creds.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(creds.Password)) == 1
		if userOK && passOK {
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
			s.logger.Info("admin login", zap.String("client", s.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		s.logger.Warn("failed admin login", zap.String("client", s.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.logger.Info("admin logout", zap.String("client", s.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			s.logger.Error("load admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.logger.Error("load visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		s.background(s.cleanupOldVisitors)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin stats exported", zap.String("client", s.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
