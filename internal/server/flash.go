package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "orderdesk_flash"

// Flash is a one-shot notification shown on the next page render
type Flash struct {
	Kind    string // success, error
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	c.SetCookie(flashCookie, kind+":"+message, 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash, if any
func popFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(value, ":")
	if !ok {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}
