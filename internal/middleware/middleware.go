package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/metrics"
	"github.com/institut/vitrine/internal/pkg/logger"
)

const (
	// AdminUserHeader carries the identity recorded in the audit fields
	AdminUserHeader = "X-Admin-User"
	// AdminUserKey is the gin context key holding that identity
	AdminUserKey = "adminUser"

	defaultAdminUser = "admin"
)

// RequestLogger logs every request once it completes
func RequestLogger() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		event := log.Info()
		if status := c.Writer.Status(); status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request handled")
	}
}

// Metrics records request counts and latencies per route template
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// AdminUser stores the X-Admin-User identity for the write handlers.
// There is no authentication: the header only feeds the audit fields.
func AdminUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := strings.TrimSpace(c.GetHeader(AdminUserHeader))
		if user == "" {
			user = defaultAdminUser
		}
		c.Set(AdminUserKey, user)
		c.Next()
	}
}

// GetAdminUser returns the identity set by AdminUser
func GetAdminUser(c *gin.Context) string {
	if v := c.GetString(AdminUserKey); v != "" {
		return v
	}
	return defaultAdminUser
}
