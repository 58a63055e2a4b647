package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/session"
)

// SessionResponse is the JSON view of the current session
type SessionResponse struct {
	Loading       bool              `json:"loading"`
	Authenticated bool              `json:"authenticated"`
	IsAdmin       bool              `json:"is_admin"`
	Identity      *session.Identity `json:"identity,omitempty"`
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "orderdesk",
		"version":   s.opts.Version,
	})
}

func (s *Server) getSession(c *gin.Context) {
	snapshot := s.sessions.Snapshot()
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, SessionResponse{
		Loading:       snapshot.LoadingInitialState,
		Authenticated: snapshot.Authenticated,
		IsAdmin:       snapshot.IsAdmin(),
		Identity:      snapshot.Identity,
	})
}
