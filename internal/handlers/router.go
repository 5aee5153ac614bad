package handlers

import (
	"time"

	"github.com/you/gramshare/internal/events"
	"github.com/you/gramshare/internal/filestore"
	"github.com/you/gramshare/internal/storage"

	"github.com/gin-gonic/gin"
)

// Config wires the router's collaborators.
type Config struct {
	Store         storage.Storage
	Files         filestore.Store
	Events        events.Sink
	SessionSecret string
	SessionTTL    time.Duration
	UploadDir     string
}

// NewRouter builds the gin engine with all routes. Comments are nested
// under their parent gram.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Events == nil {
		cfg.Events = events.Nop{}
	}

	grams := NewGramHandler(cfg.Store, cfg.Files, cfg.Events)
	comments := NewCommentHandler(cfg.Store, cfg.Events)
	sessions := NewSessionHandler(cfg.Store, cfg.SessionSecret, cfg.SessionTTL)

	r := gin.Default()
	r.Use(CurrentUser(cfg.Store, cfg.SessionSecret))

	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	r.POST("/signup", sessions.Signup)
	r.GET("/login", sessions.LoginForm)
	r.POST("/login", sessions.Login)
	r.POST("/logout", sessions.Logout)

	r.GET("/", grams.List)
	r.GET("/grams/new", RequireUser(), grams.New)
	r.POST("/grams", RequireUser(), grams.Create)
	r.GET("/grams/:id", grams.Show)
	r.GET("/grams/:id/edit", RequireUser(), grams.Edit)
	r.PATCH("/grams/:id", RequireUser(), grams.Update)
	r.DELETE("/grams/:id", RequireUser(), grams.Destroy)

	r.GET("/grams/:id/comments", comments.List)
	r.GET("/grams/:id/comments/new", RequireUser(), comments.New)
	r.POST("/grams/:id/comments", RequireUser(), comments.Create)
	r.GET("/grams/:id/comments/feed", comments.Feed)

	return r
}
