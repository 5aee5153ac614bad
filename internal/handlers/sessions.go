package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/you/gramshare/internal/auth"
	"github.com/you/gramshare/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SessionHandler covers signup, login and logout. A session is a signed JWT
// held in a cookie.
type SessionHandler struct {
	store  storage.Storage
	secret string
	ttl    time.Duration
}

func NewSessionHandler(store storage.Storage, secret string, ttl time.Duration) *SessionHandler {
	return &SessionHandler{store: store, secret: secret, ttl: ttl}
}

type credentials struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Signup registers a user and starts their session.
func (h *SessionHandler) Signup(c *gin.Context) {
	var in credentials
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{err.Error()}})
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	user, err := h.store.CreateUser(in.Email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{err.Error()}})
			return
		}
		log.WithError(err).Error("create user failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := h.startSession(c, user.ID, user.Email); err != nil {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// LoginForm returns the login template. This is the page unauthenticated
// requests get redirected to.
func (h *SessionHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": credentials{}})
}

// Login verifies credentials and starts a session.
func (h *SessionHandler) Login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{err.Error()}})
		return
	}

	user, err := h.store.GetUserByEmail(in.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, in.Password) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"invalid email or password"}})
		return
	}

	if err := h.startSession(c, user.ID, user.Email); err != nil {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie.
func (h *SessionHandler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *SessionHandler) startSession(c *gin.Context, userID, email string) error {
	token, err := auth.NewSessionToken(userID, email, h.secret, h.ttl)
	if err != nil {
		log.WithError(err).Error("sign session token failed")
		c.Status(http.StatusInternalServerError)
		return err
	}
	c.SetCookie(sessionCookie, token, int(h.ttl.Seconds()), "/", "", false, true)
	return nil
}
