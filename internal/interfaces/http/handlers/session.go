// internal/interfaces/http/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookieName = "session_id"

// sessionMaxAge keeps the cookie alive as long as the stored cart
const sessionMaxAge = 7 * 24 * 3600

// getOrCreateSessionID returns the anonymous session id from the cookie,
// or the X-Session-ID header for clients that cannot send cookies,
// minting a new one when neither is present.
func getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(sessionCookieName)
	if err == nil && sessionID != "" {
		return sessionID
	}

	if headerID := c.GetHeader("X-Session-ID"); headerID != "" {
		return headerID
	}

	sessionID = uuid.New().String()
	c.SetCookie(sessionCookieName, sessionID, sessionMaxAge, "/", "", false, true)
	return sessionID
}
