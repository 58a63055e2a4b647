package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/guard"
	"github.com/orderdesk/orderdesk/internal/session"
)

const sessionContextKey = "session"

func setSession(c *gin.Context, snapshot session.Session) {
	c.Set(sessionContextKey, snapshot)
}

// GetSession returns the session snapshot the guard admitted the request with
func GetSession(c *gin.Context) (session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return session.Session{}, false
	}
	snapshot, ok := value.(session.Session)
	return snapshot, ok
}

// requireSession gates the route group behind the access guard.
// Each request is a fresh render of the view, so it gets its own guard
// whose navigation is an HTTP redirect on that request. The guard's
// redirect dedup therefore never carries over between requests.
func (s *Server) requireSession(requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := guard.NavigatorFunc(func(path string) {
			c.Redirect(http.StatusSeeOther, path)
		})

		snapshot := s.sessions.Snapshot()
		state := guard.New(requireAdmin, nav).Evaluate(snapshot)

		switch state {
		case guard.Permitted:
			setSession(c, snapshot)
			c.Next()
		case guard.Resolving:
			c.Header("Cache-Control", "no-store")
			c.HTML(http.StatusOK, "loading.html", gin.H{"Title": "Loading"})
			c.Abort()
		default:
			s.logger.Debug().
				Str("path", c.Request.URL.Path).
				Str("state", state.String()).
				Msg("Access denied")
			c.Abort()
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
