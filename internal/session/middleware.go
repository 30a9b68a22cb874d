package session

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stitts-dev/megasena-sim/pkg/logger"
)

const (
	CookieName = "megasena_session"
	HeaderName = "X-Session-ID"

	contextKey = "session_id"
	idKey      = "sid"
)

// Sessions installs the signed cookie store that carries the session id.
func Sessions(secret string, ttl time.Duration) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(CookieName, store)
}

// Middleware resolves the session id for the request: an explicit
// X-Session-ID header wins, then the cookie, else a new id is issued.
// Cookie sessions are re-saved on every request so the cookie's max age
// counts from the last activity. It must run after Sessions.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieSession := sessions.Default(c)

		id := ""
		if header := c.GetHeader(HeaderName); header != "" {
			if _, err := uuid.Parse(header); err == nil {
				id = header
			}
		}
		if id == "" {
			id, _ = cookieSession.Get(idKey).(string)
			if id == "" {
				id = uuid.NewString()
				logger.WithSession(id).Debug("New dashboard session")
			}
			cookieSession.Set(idKey, id)
			if err := cookieSession.Save(); err != nil {
				logger.WithSession(id).WithError(err).Warn("Failed to persist session cookie")
			}
		}

		c.Set(contextKey, id)
		c.Header(HeaderName, id)
		c.Next()
	}
}

// ID returns the session id resolved by Middleware.
func ID(c *gin.Context) string {
	return c.GetString(contextKey)
}
