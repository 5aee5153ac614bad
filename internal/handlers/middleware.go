package handlers

import (
	"net/http"

	"github.com/you/gramshare/internal/auth"
	"github.com/you/gramshare/internal/models"
	"github.com/you/gramshare/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie  = "gramshare_session"
	currentUserKey = "currentUser"

	// loginPath is where unauthenticated requests get redirected.
	loginPath = "/login"
)

// CurrentUser resolves the session cookie into a user and stashes it in the
// gin context. Requests without a valid session pass through anonymously.
func CurrentUser(store storage.Storage, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil {
			c.Next()
			return
		}
		claims, err := auth.ParseSessionToken(token, secret)
		if err != nil {
			c.Next()
			return
		}
		if user, err := store.GetUserByID(claims.Sub); err == nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireUser redirects to the login page when no identity resolved.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// isOwner is the single authorization predicate guarding edit, update and
// destroy. Reads are never ownership-checked.
func isOwner(gram *models.Gram, user *models.User) bool {
	return gram.UserID == user.ID
}
