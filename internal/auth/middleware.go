package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"playgrid/backend/internal/models"
	"playgrid/backend/internal/session"
	"playgrid/backend/internal/store"
	"playgrid/backend/pkg/token"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "token"

// Context keys set by Middleware.
const (
	ContextUser      = "user"
	ContextSessionID = "sessionID"
)

// ResolveRequest authenticates a request from its session cookie: verify the
// cookie signature, resolve the session, load the user. Shared by the HTTP
// middleware and the websocket gateway.
func ResolveRequest(r *http.Request, secret string, sessions *session.Store, users *store.Users) (*models.User, *session.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil, fmt.Errorf("no token provided")
	}

	sessionID, err := token.Parse(secret, cookie.Value)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid cookie signature: %w", err)
	}

	sess, err := sessions.Get(r.Context(), sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid session: %w", err)
	}

	user, err := users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		// The user may have been deleted while the session survived.
		return nil, nil, fmt.Errorf("session user not found: %w", err)
	}

	return user, sess, nil
}

// Middleware authenticates every request on the protected routes and attaches
// the user and session ID to the gin context.
func Middleware(secret string, sessions *session.Store, users *store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, sess, err := ResolveRequest(c.Request, secret, sessions, users)
		if err != nil {
			ClearCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": false,
				"errors": gin.H{
					"message": "Unauthorized: Invalid session.",
					"path":    "/login",
				},
			})
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextSessionID, sess.ID)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user set by Middleware.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.Get(ContextUser)
	u, _ := user.(*models.User)
	return u
}

// CurrentSessionID pulls the session ID set by Middleware.
func CurrentSessionID(c *gin.Context) string {
	id, _ := c.Get(ContextSessionID)
	s, _ := id.(string)
	return s
}

// SetCookie installs the signed session token cookie.
func SetCookie(c *gin.Context, value string) {
	c.SetCookie(CookieName, value, int(session.Retention.Seconds()), "/", "", false, true)
}

// ClearCookie drops the session token cookie.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
