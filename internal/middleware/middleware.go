package middleware

import (
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/loader"
	"github.com/franciscosanchezn/gin-employee-api/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Session resolves the caller from the Authorization header once per request and attaches it,
// together with a fresh batch loader, to the request context.
// An invalid or missing token never rejects the request: operations decide for themselves
// whether they need an authenticated caller.
func Session(resolver *session.Resolver, fetcher loader.BatchFetcher, loaderWait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if account != nil {
			c.Set("employeeID", account.ID)
			c.Set("employeeRole", account.Role.String())
		}

		sess := session.NewContext(account, loader.NewEmployeeLoader(fetcher, loaderWait))
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), sess))
		c.Next()
	}
}

// RequestLogger logs one structured line per request
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if id, ok := c.Get("employeeID"); ok {
			fields["employee_id"] = id
		}
		if role, ok := c.Get("employeeRole"); ok {
			fields["employee_role"] = role
		}

		entry := log.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request completed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}
